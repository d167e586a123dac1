package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/1broseidon/xscreensplit/internal/layout"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
)

const profileExt = ".yaml"

// Store keeps layout profiles as <name>.yaml files in one directory.
type Store struct {
	Dir string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

func validateProfileName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("profile name is required")
	}
	if strings.Contains(name, string(os.PathSeparator)) || name != filepath.Base(name) {
		return fmt.Errorf("invalid profile name %q", name)
	}
	if name == "." || name == ".." || strings.Contains(name, "..") {
		return fmt.Errorf("invalid profile name %q", name)
	}
	return nil
}

// Path returns the file path for a profile. A ".yml" file is used when it
// exists and no ".yaml" file does.
func (s *Store) Path(name string) (string, error) {
	if err := validateProfileName(name); err != nil {
		return "", err
	}
	path := filepath.Join(s.Dir, name+profileExt)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		alt := filepath.Join(s.Dir, name+".yml")
		if _, err := os.Stat(alt); err == nil {
			return alt, nil
		}
	}
	return path, nil
}

// EnsureDefault creates the store directory and seeds the named default
// profile (DefaultProfile when empty) with the example layout when it does
// not exist yet.
func (s *Store) EnsureDefault(name string) error {
	if strings.TrimSpace(name) == "" {
		name = DefaultProfile
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}
	exists, err := s.Exists(name)
	if err != nil || exists {
		return err
	}
	return s.Create(name)
}

// Exists reports whether the named profile has a file.
func (s *Store) Exists(name string) (bool, error) {
	path, err := s.Path(name)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat profile %q: %w", name, err)
	}
	return true, nil
}

// Read returns the raw contents of a profile.
func (s *Store) Read(name string) ([]byte, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s not found in %s", ErrProfileNotFound, filepath.Base(path), s.Dir)
		}
		return nil, fmt.Errorf("failed to read profile %q: %w", name, err)
	}
	return data, nil
}

// Load reads and parses a profile. The tree is not verified.
func (s *Store) Load(name string) (*layout.Node, error) {
	data, err := s.Read(name)
	if err != nil {
		return nil, err
	}
	root, err := layout.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", name, err)
	}
	return root, nil
}

// Create writes a new profile containing the example layout. It never
// overwrites an existing profile.
func (s *Store) Create(name string) error {
	exists, err := s.Exists(name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrProfileExists, name)
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}
	path := filepath.Join(s.Dir, name+profileExt)
	if err := os.WriteFile(path, []byte(layout.Example), 0644); err != nil {
		return fmt.Errorf("failed to write profile %q: %w", name, err)
	}
	return nil
}

// Delete removes a profile file.
func (s *Store) Delete(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
		}
		return fmt.Errorf("failed to delete profile %q: %w", name, err)
	}
	return nil
}

// List returns the sorted names of all profiles.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	seen := make(map[string]struct{})
	var out []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		base := strings.TrimSuffix(name, ext)
		if base == settingsFileName {
			continue
		}
		if _, ok := seen[base]; ok {
			continue
		}
		seen[base] = struct{}{}
		out = append(out, base)
	}
	sort.Strings(out)
	return out, nil
}
