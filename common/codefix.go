package common

import (
	"regexp"
	"strings"

	"github.com/bitrise-io/bitrise-plugins-code-assistant/model"
)

const (
	NoIssuesPlaceholder       = "No issues found! Please review your code for potential issues."
	NoImprovementsPlaceholder = "No specific improvements suggested! Consider checking variable names, performance, and code readability."
	NoFixPlaceholder          = "No fix provided. Ensure the AI properly analyzed and fixed the issues."
)

var (
	sectionMarkerRe = regexp.MustCompile(`(?i)ISSUES:|IMPROVEMENTS:|FIXED CODE:`)
	openingFenceRe  = regexp.MustCompile("```[A-Za-z0-9_+#.-]*\\n")
	closingFenceRe  = regexp.MustCompile("\\n?```")
)

// ParseCodeFix splits a fix-code reply on its section markers.
// Segments are assigned by position after the first marker; missing ones get a placeholder.
func ParseCodeFix(text string) model.CodeFix {
	sections := sectionMarkerRe.Split(text, -1)

	return model.CodeFix{
		Issues:       sectionOr(sections, 1, NoIssuesPlaceholder),
		Improvements: sectionOr(sections, 2, NoImprovementsPlaceholder),
		FixedCode:    sectionOr(sections, 3, NoFixPlaceholder),
	}
}

func sectionOr(sections []string, i int, placeholder string) string {
	if i >= len(sections) {
		return placeholder
	}
	if s := strings.TrimSpace(sections[i]); s != "" {
		return s
	}
	return placeholder
}

// SanitizeCode strips markdown code fences, including an optional language tag on the opening one
func SanitizeCode(code string) string {
	code = openingFenceRe.ReplaceAllString(code, "")
	code = closingFenceRe.ReplaceAllString(code, "")
	return strings.TrimSpace(code)
}
