package prompt

func GetExplainPrompt(code string) string {
	return "Explain this code clearly and succinctly, focusing on its main purpose and functionality:\n" +
		"```\n" + code + "\n```"
}
