package vault

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// defaultExcludeDirs lists directories that never contain journal
// entries: tool state, dependency trees, and our own output.
var defaultExcludeDirs = []string{
	".obsidian",
	".git",
	".trash",
	".vscode",
	".idea",
	"node_modules",
	"Summaries",
	"Attachments",
	"Templates",
}

// Scanner discovers markdown files under a vault root directory.
type Scanner struct {
	root    string
	exclude map[string]struct{}
}

// NewScanner validates the vault root and builds a scanner. Extra
// exclude directories are merged with the defaults.
func NewScanner(root string, excludeDirs ...string) (*Scanner, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("vault: invalid path %s: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("vault: cannot access %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault: %s is not a directory", abs)
	}

	exclude := make(map[string]struct{}, len(defaultExcludeDirs)+len(excludeDirs))
	for _, d := range defaultExcludeDirs {
		exclude[d] = struct{}{}
	}
	for _, d := range excludeDirs {
		exclude[d] = struct{}{}
	}

	return &Scanner{root: abs, exclude: exclude}, nil
}

// Root returns the resolved vault root.
func (s *Scanner) Root() string { return s.root }

// Scan walks the vault and returns the sorted markdown file paths,
// skipping excluded directories and editor temp files.
func (s *Scanner) Scan() ([]string, error) {
	var files []string

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if _, skip := s.exclude[d.Name()]; skip && path != s.root {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}
		if isTempFile(d.Name()) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("vault: scan of %s failed: %w", s.root, err)
	}

	sort.Strings(files)
	return files, nil
}

func isTempFile(name string) bool {
	if strings.HasPrefix(name, "~") || strings.HasPrefix(name, ".#") {
		return true
	}
	for _, ext := range []string{".tmp", ".bak", ".swp", ".swo"} {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
