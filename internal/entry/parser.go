package entry

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ParseError reports a file that could not be parsed. Callers skip the
// file and continue; a bad note never aborts a run.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("entry: failed to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var (
	hashtagPattern = regexp.MustCompile(`#(\w+)`)
	headingPattern = regexp.MustCompile(`(?m)^#\s+(.+)$`)

	datePatterns = []struct {
		re     *regexp.Regexp
		layout string
	}{
		{regexp.MustCompile(`\d{4}-\d{2}-\d{2}`), "2006-01-02"},
		{regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`), "1/2/2006"},
	}
)

// Parser parses markdown note content into Entries.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// ParseFile reads and parses a single markdown file.
func (p *Parser) ParseFile(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return p.Parse(path, string(data))
}

// Parse parses raw markdown content. The path is recorded as the
// entry's source and consulted for filename-based date extraction.
func (p *Parser) Parse(path, content string) (*Entry, error) {
	frontmatter, body, err := splitFrontmatter(content)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	e := &Entry{
		SourcePath:  path,
		Title:       extractTitle(path, frontmatter, body),
		Date:        extractDate(path, frontmatter, body),
		Hashtags:    extractHashtags(body),
		Body:        strings.TrimSpace(body),
		Frontmatter: frontmatter,
		Raw:         content,
	}
	return e, nil
}

// splitFrontmatter separates YAML frontmatter (between leading ---
// markers) from the markdown body.
func splitFrontmatter(content string) (map[string]any, string, error) {
	if !strings.HasPrefix(content, "---") {
		return nil, content, nil
	}

	parts := strings.SplitN(content, "---", 3)
	if len(parts) < 3 {
		return nil, content, nil
	}

	var frontmatter map[string]any
	if text := strings.TrimSpace(parts[1]); text != "" {
		if err := yaml.Unmarshal([]byte(text), &frontmatter); err != nil {
			return nil, "", fmt.Errorf("invalid frontmatter: %w", err)
		}
	}
	return frontmatter, strings.TrimSpace(parts[2]), nil
}

// extractTitle prefers frontmatter, then the first heading, then the
// filename without extension.
func extractTitle(path string, frontmatter map[string]any, body string) string {
	if title, ok := frontmatter["title"]; ok {
		return fmt.Sprintf("%v", title)
	}
	if m := headingPattern.FindStringSubmatch(body); m != nil {
		return strings.TrimSpace(m[1])
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func extractHashtags(body string) map[string]struct{} {
	tags := make(map[string]struct{})
	for _, m := range hashtagPattern.FindAllStringSubmatch(body, -1) {
		tags[m[1]] = struct{}{}
	}
	return tags
}

// extractDate tries frontmatter, then the filename, then the body.
// Returns the zero time when nothing parses.
func extractDate(path string, frontmatter map[string]any, body string) time.Time {
	if raw, ok := frontmatter["date"]; ok {
		switch v := raw.(type) {
		case time.Time:
			return v
		case string:
			if d, ok := parseDate(v); ok {
				return d
			}
		}
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if d, ok := findDate(stem); ok {
		return d
	}
	if d, ok := findDate(body); ok {
		return d
	}
	return time.Time{}
}

func findDate(text string) (time.Time, bool) {
	for _, p := range datePatterns {
		if m := p.re.FindString(text); m != "" {
			if d, err := time.Parse(p.layout, m); err == nil {
				return d, true
			}
		}
	}
	return time.Time{}, false
}

func parseDate(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05", "1/2/2006"} {
		if d, err := time.Parse(layout, text); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
