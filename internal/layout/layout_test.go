package layout

import (
	"errors"
	"strings"
	"testing"
)

func mustParse(t *testing.T, doc string) *Node {
	t.Helper()
	n, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return n
}

func TestParse_Example(t *testing.T) {
	root := mustParse(t, Example)

	if root.Kind != KindVertical {
		t.Fatalf("root kind = %q, want vertical", root.Kind)
	}
	if root.Width != nil {
		t.Fatalf("root width = %d, want nil", *root.Width)
	}
	if len(root.Nodes) != 3 {
		t.Fatalf("root children = %d, want 3", len(root.Nodes))
	}

	first := root.Nodes[0]
	if first.Kind != KindHorizontal || first.WidthOrZero() != 70 || len(first.Nodes) != 2 {
		t.Fatalf("unexpected first child: kind=%q width=%d children=%d", first.Kind, first.WidthOrZero(), len(first.Nodes))
	}
	if got := first.Nodes[1].WidthOrZero(); got != 40 {
		t.Fatalf("first.Nodes[1] width = %d, want 40", got)
	}

	last := root.Nodes[2]
	if last.Kind != KindWindow || !last.IsLeaf() || last.WidthOrZero() != 5 {
		t.Fatalf("unexpected last child: kind=%q width=%d leaf=%v", last.Kind, last.WidthOrZero(), last.IsLeaf())
	}
	if last.Line == 0 {
		t.Fatalf("expected source line to be recorded")
	}
}

func TestParse_KeepsUnknownType(t *testing.T) {
	root := mustParse(t, "nodes:\n  - type: diagonal\n    nodes:\n      - width: 100\n")
	if root.Kind != "diagonal" {
		t.Fatalf("root kind = %q, want diagonal", root.Kind)
	}
	if root.Nodes[0].Kind != "" {
		t.Fatalf("child kind = %q, want empty", root.Nodes[0].Kind)
	}
}

func TestParse_ShapeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"scalar document", "just text", "must be a mapping"},
		{"list document", "- type: window", "must be a mapping"},
		{"missing nodes", "type: window", "no \"nodes\" list"},
		{"nodes not a list", "nodes: window", "must be a list"},
		{"empty nodes", "nodes: []", "is empty"},
		{"node not a mapping", "nodes:\n  - window", "node must be a mapping"},
		{"child nodes not a list", "nodes:\n  - type: vertical\n    nodes: {type: window}", "must be a list"},
		{"width not integer", "nodes:\n  - type: vertical\n    nodes:\n      - type: window\n        width: half", "not an integer"},
		{"invalid yaml", "nodes: [", "invalid YAML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T (%v)", err, err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestVerify_ValidTrees(t *testing.T) {
	docs := map[string]string{
		"example":     Example,
		"single leaf": "nodes:\n  - type: window\n",
		"empty split": "nodes:\n  - type: horizontal\n",
		"zero width sibling": `nodes:
  - type: vertical
    nodes:
      - {type: window, width: 0}
      - {type: window, width: 100}
`,
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			ok, diag := Verify(mustParse(t, doc))
			if !ok {
				t.Fatalf("expected valid tree, got %q", diag)
			}
			if diag != "" {
				t.Fatalf("expected empty diagnostic, got %q", diag)
			}
		})
	}
}

func TestVerify_RootSumMismatch(t *testing.T) {
	root := mustParse(t, Example)
	*root.Nodes[2].Width = 10

	ok, diag := Verify(root)
	if ok {
		t.Fatalf("expected invalid tree")
	}
	want := "Error at root: Total width is 105, but expected 100."
	if diag != want {
		t.Fatalf("diagnostic = %q, want %q", diag, want)
	}
}

func TestVerify_NestedFailureReportsNestedPath(t *testing.T) {
	root := mustParse(t, Example)
	*root.Nodes[1].Nodes[0].Width = 45

	err := VerifyTree(root, RootPath)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
	if verr.Path != "root -> vertical[1]" {
		t.Fatalf("path = %q, want %q", verr.Path, "root -> vertical[1]")
	}
	if verr.Sum != 95 || verr.Want != 100 {
		t.Fatalf("sum/want = %d/%d, want 95/100", verr.Sum, verr.Want)
	}
	if !errors.Is(err, ErrWidthSum) {
		t.Fatalf("expected ErrWidthSum, got %v", err)
	}
}

func TestVerify_DeepFailureWinsOverLaterSiblings(t *testing.T) {
	doc := `nodes:
  - type: vertical
    nodes:
      - width: 50
        type: horizontal
        nodes:
          - width: 50
            type: vertical
            nodes:
              - {type: window, width: 30}
              - {type: window, width: 30}
          - {type: window, width: 50}
      - width: 40
        type: window
`
	err := VerifyTree(mustParse(t, doc), RootPath)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	want := "root -> horizontal[0] -> vertical[0]"
	if verr.Path != want {
		t.Fatalf("path = %q, want %q", verr.Path, want)
	}
	if verr.Sum != 60 {
		t.Fatalf("sum = %d, want 60", verr.Sum)
	}
}

func TestVerify_StructuralErrors(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantErr  error
		wantPath string
	}{
		{
			name:     "missing child width",
			doc:      "nodes:\n  - type: vertical\n    nodes:\n      - {type: window, width: 100}\n      - {type: window}\n",
			wantErr:  ErrMissingWidth,
			wantPath: "root -> window[1]",
		},
		{
			name:     "window with children",
			doc:      "nodes:\n  - type: window\n    nodes:\n      - {type: window, width: 100}\n",
			wantErr:  ErrWindowChildren,
			wantPath: "root",
		},
		{
			name:     "unknown kind",
			doc:      "nodes:\n  - type: vertical\n    nodes:\n      - {type: grid, width: 100}\n",
			wantErr:  ErrUnknownKind,
			wantPath: "root -> grid[0]",
		},
		{
			name:     "missing kind",
			doc:      "nodes:\n  - width: 100\n",
			wantErr:  ErrUnknownKind,
			wantPath: "root",
		},
		{
			name:     "width over 100",
			doc:      "nodes:\n  - type: vertical\n    nodes:\n      - {type: window, width: 150}\n      - {type: window, width: -50}\n",
			wantErr:  ErrWidthOutOfRange,
			wantPath: "root -> window[0]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyTree(mustParse(t, tt.doc), RootPath)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Path != tt.wantPath {
				t.Fatalf("path = %q, want %q", verr.Path, tt.wantPath)
			}
		})
	}
}

func TestVerify_Nil(t *testing.T) {
	ok, diag := Verify(nil)
	if ok {
		t.Fatalf("expected nil tree to be invalid")
	}
	if diag != "Error at root: empty layout" {
		t.Fatalf("diagnostic = %q", diag)
	}
	if err := VerifyTree(nil, RootPath); !errors.Is(err, ErrEmptyLayout) {
		t.Fatalf("VerifyTree(nil) = %v, want ErrEmptyLayout", err)
	}
}

func TestParse_Aliases(t *testing.T) {
	tests := map[string]string{
		"aliased child list": `
halves: &halves
  - {type: window, width: 50}
  - {type: window, width: 50}
nodes:
  - type: vertical
    nodes: *halves
`,
		"aliased scalars": `
kind: &kind horizontal
w: &w 50
nodes:
  - type: *kind
    nodes:
      - {type: window, width: *w}
      - {type: window, width: *w}
`,
		"aliased top-level list": `
tree: &tree
  - type: vertical
    nodes:
      - {type: window, width: 50}
      - {type: window, width: 50}
nodes: *tree
`,
		"merge key": `
half: &half {type: window, width: 50}
nodes:
  - type: vertical
    nodes:
      - <<: *half
      - <<: *half
`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			root := mustParse(t, doc)
			if len(root.Nodes) != 2 {
				t.Fatalf("root has %d children, want 2", len(root.Nodes))
			}
			for i, c := range root.Nodes {
				if c.Kind != KindWindow || c.WidthOrZero() != 50 {
					t.Fatalf("child %d = %s/%d, want window/50", i, c.Kind, c.WidthOrZero())
				}
			}
			if ok, diag := Verify(root); !ok {
				t.Fatalf("Verify() = %s", diag)
			}
		})
	}
}

func TestParse_MergeKeyOverride(t *testing.T) {
	root := mustParse(t, `
base: &base {type: window, width: 30}
nodes:
  - type: vertical
    nodes:
      - <<: *base
        width: 70
      - <<: *base
`)
	if got := root.Nodes[0].WidthOrZero(); got != 70 {
		t.Fatalf("explicit width = %d, want 70", got)
	}
	if got := root.Nodes[1].WidthOrZero(); got != 30 {
		t.Fatalf("merged width = %d, want 30", got)
	}
}
