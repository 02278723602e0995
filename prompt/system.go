package prompt

const (
	codeSystemPrompt    = "You are a professional coding assistant. Provide concise, direct, and actionable advice on coding tasks or issues. Focus on key concepts and functionality."
	generalSystemPrompt = "You are a helpful assistant. Provide brief, clear responses to the user's questions. Avoid unnecessary details and keep it professional."
)

// GetSystemPrompt returns the fixed system prompt for code related or general requests
func GetSystemPrompt(codeRelated bool) string {
	if codeRelated {
		return codeSystemPrompt
	}
	return generalSystemPrompt
}
