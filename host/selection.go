package host

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bitrise-io/bitrise-plugins-code-assistant/assistant"
)

var languageByExt = map[string]string{
	".go":    "go",
	".py":    "python",
	".js":    "javascript",
	".jsx":   "javascriptreact",
	".ts":    "typescript",
	".tsx":   "typescriptreact",
	".rs":    "rust",
	".java":  "java",
	".kt":    "kotlin",
	".swift": "swift",
	".rb":    "ruby",
	".php":   "php",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".cc":    "cpp",
	".cs":    "csharp",
	".sh":    "shellscript",
	".yml":   "yaml",
	".yaml":  "yaml",
	".json":  "json",
	".md":    "markdown",
}

// LanguageID guesses the editor language id from a file name
func LanguageID(path string) string {
	if lang, ok := languageByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return "plaintext"
}

// ParseLineRange parses "start:end", "start:" or "line" into 1-based inclusive bounds.
// An empty range selects the whole document and returns 0, 0.
func ParseLineRange(s string) (int, int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, nil
	}

	startStr, endStr, hasEnd := strings.Cut(s, ":")
	start, err := strconv.Atoi(startStr)
	if err != nil || start < 1 {
		return 0, 0, fmt.Errorf("invalid start line %q", startStr)
	}
	if !hasEnd {
		return start, start, nil
	}
	if endStr == "" {
		return start, -1, nil
	}

	end, err := strconv.Atoi(endStr)
	if err != nil || end < start {
		return 0, 0, fmt.Errorf("invalid end line %q", endStr)
	}
	return start, end, nil
}

// SelectFile makes lines start..end of path the active selection.
// end of -1 means the last line; start of 0 selects the whole file.
func (t *Terminal) SelectFile(path string, start, end int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	lines := strings.Split(string(data), "\n")
	count := len(lines)
	// a trailing newline is not a line of its own
	if count > 1 && lines[count-1] == "" {
		count--
	}
	if start == 0 {
		start, end = 1, count
	}
	if end == -1 || end > count {
		end = count
	}
	if start > count {
		return fmt.Errorf("%s has only %d lines", path, count)
	}

	sel := assistant.Selection{
		Document:  path,
		StartLine: start,
		EndLine:   end,
		Text:      strings.Join(lines[start-1:end], "\n"),
		Language:  LanguageID(path),
	}

	t.mu.Lock()
	t.selection = &sel
	t.mu.Unlock()
	return nil
}

func (t *Terminal) Selection() (assistant.Selection, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.selection == nil {
		return assistant.Selection{}, false
	}
	return *t.selection, true
}

// ReplaceSelection writes text over the selected lines of the document
func (t *Terminal) ReplaceSelection(sel assistant.Selection, text string) error {
	info, err := os.Stat(sel.Document)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", sel.Document, err)
	}
	data, err := os.ReadFile(sel.Document)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", sel.Document, err)
	}

	lines := strings.Split(string(data), "\n")
	if sel.StartLine < 1 || sel.EndLine > len(lines) || sel.StartLine > sel.EndLine {
		return fmt.Errorf("selection %d:%d is outside of %s", sel.StartLine, sel.EndLine, sel.Document)
	}

	replaced := make([]string, 0, len(lines))
	replaced = append(replaced, lines[:sel.StartLine-1]...)
	replaced = append(replaced, strings.Split(text, "\n")...)
	replaced = append(replaced, lines[sel.EndLine:]...)

	if err := os.WriteFile(sel.Document, []byte(strings.Join(replaced, "\n")), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", sel.Document, err)
	}
	return nil
}
