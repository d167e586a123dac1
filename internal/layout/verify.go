package layout

import (
	"errors"
	"fmt"
)

// RootPath is the path label of the tree root in diagnostics.
const RootPath = "root"

// WantWidthSum is the required sum of sibling widths.
const WantWidthSum = 100

var (
	ErrEmptyLayout     = errors.New("empty layout")
	ErrUnknownKind     = errors.New("unknown node type")
	ErrWindowChildren  = errors.New("window node cannot have child nodes")
	ErrMissingWidth    = errors.New("missing width")
	ErrWidthOutOfRange = errors.New("width must be between 0 and 100")
	ErrWidthSum        = errors.New("sibling widths do not sum to 100")
)

// ValidationError reports the first node of a tree that breaks an invariant.
type ValidationError struct {
	Path string
	Sum  int // set for ErrWidthSum
	Want int
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if errors.Is(e.Err, ErrWidthSum) {
		return fmt.Sprintf("Error at %s: Total width is %d, but expected %d.", e.Path, e.Sum, e.Want)
	}
	return fmt.Sprintf("Error at %s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// VerifyTree checks the tree rooted at n. Children are verified depth-first,
// left to right, before the node's own width sum, and the first failure is
// returned without looking further.
func VerifyTree(n *Node, path string) error {
	if n == nil {
		return &ValidationError{Path: path, Err: ErrEmptyLayout}
	}
	if !n.Kind.Known() {
		return &ValidationError{Path: path, Err: fmt.Errorf("%w %q", ErrUnknownKind, n.Kind)}
	}
	if n.IsLeaf() {
		return nil
	}
	if n.Kind == KindWindow {
		return &ValidationError{Path: path, Err: ErrWindowChildren}
	}

	total := 0
	for i, child := range n.Nodes {
		childPath := fmt.Sprintf("%s -> %s[%d]", path, child.Kind, i)
		if child.Width == nil {
			return &ValidationError{Path: childPath, Err: ErrMissingWidth}
		}
		if w := *child.Width; w < 0 || w > 100 {
			return &ValidationError{Path: childPath, Err: fmt.Errorf("%w, got %d", ErrWidthOutOfRange, w)}
		}
		total += *child.Width

		if err := VerifyTree(child, childPath); err != nil {
			return err
		}
	}

	if total != WantWidthSum {
		return &ValidationError{Path: path, Sum: total, Want: WantWidthSum, Err: ErrWidthSum}
	}
	return nil
}

// Verify reports whether root is a valid tree and, if not, the diagnostic.
func Verify(root *Node) (bool, string) {
	if err := VerifyTree(root, RootPath); err != nil {
		return false, err.Error()
	}
	return true, ""
}
