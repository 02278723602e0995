package prompt

// Section headers the fix prompt asks the model to emit, in order
const (
	IssuesHeader       = "ISSUES:"
	ImprovementsHeader = "IMPROVEMENTS:"
	FixedCodeHeader    = "FIXED CODE:"
)

func GetFixPrompt(language, code string) string {
	return `You are a code improvement expert. Analyze this ` + language + ` code and provide improvements:
1. Start with "` + IssuesHeader + `" followed by a bullet-point list of main issues (maximum 3 points).
2. Then "` + ImprovementsHeader + `" with bullet points of specific, actionable fixes (e.g., optimizations, error handling, refactoring suggestions).
3. Finally, provide the complete improved code after "` + FixedCodeHeader + `"
Focus on improving readability, performance, and maintainability, while maintaining the original functionality.

Original code:
` + "```" + language + "\n" + code + "\n```"
}
