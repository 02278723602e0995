package assistant

import (
	"context"
	"strings"

	"github.com/bitrise-io/bitrise-plugins-code-assistant/common"
	"github.com/bitrise-io/bitrise-plugins-code-assistant/model"
	"github.com/bitrise-io/bitrise-plugins-code-assistant/prompt"
)

const (
	applyOption  = "Apply"
	cancelOption = "Cancel"
)

var catReplies = []string{
	"Meow! 😺 I'm happy to help!",
	"Purr... that's my favorite word! 🐱",
	"Meow meow! Ready to code! 😸",
	"Did someone say meow? I'm all ears! 😺",
}

func (a *Assistant) askQuestion(ctx context.Context, cmd AskQuestion) error {
	settings := a.session.Snapshot()
	if settings.APIKey == "" {
		return ErrMissingCredential
	}

	question := strings.TrimSpace(cmd.Question)
	if question == "" {
		return precondition("Please enter a question first!")
	}

	if strings.Contains(strings.ToLower(question), "meow") {
		a.presence.Hold(Success, a.presence.Delays().Playful)
		a.host.ShowInfo(catReplies[a.pick(len(catReplies))])
		return nil
	}

	a.presence.Set(Processing)
	response, err := a.complete(ctx, settings, question, false)
	if err != nil {
		return err
	}

	if settings.Notifications {
		a.host.ShowInfo("🐱 " + response)
	} else {
		a.host.ShowPanel("🐱 AI Response", response)
	}
	a.presence.RestAfter(a.presence.Delays().Settle)
	return nil
}

func (a *Assistant) setAPIKey(ctx context.Context, _ SetAPIKey) error {
	return a.setupAPIKey(ctx)
}

func (a *Assistant) setupAPIKey(ctx context.Context) error {
	apiKey, ok, err := a.host.PromptInput(ctx, InputOptions{
		Prompt:      "Enter your API Key",
		Placeholder: "Enter API key...",
		Secret:      true,
		Validate:    notEmpty("API key cannot be empty"),
	})
	if err != nil || !ok {
		return err
	}

	if err := a.session.SetAPIKey(strings.TrimSpace(apiKey)); err != nil {
		return err
	}
	a.presence.Set(Success)
	a.host.ShowInfo("✨ API Key saved globally! You can now chat with your AI assistant.")
	return nil
}

func (a *Assistant) selectModel(ctx context.Context, _ SelectModel) error {
	current := a.session.Snapshot().Model
	modelName, ok, err := a.host.PromptInput(ctx, InputOptions{
		Prompt:      "Enter the model name (e.g., gpt-3.5-turbo)",
		Placeholder: "Enter model name...",
		Value:       current,
		Validate:    notEmpty("Model name cannot be empty"),
	})
	if err != nil || !ok {
		return err
	}

	modelName = strings.TrimSpace(modelName)
	if err := a.session.SetModel(modelName); err != nil {
		return err
	}
	a.host.ShowInfo("🤖 Model changed to: " + modelName)
	return nil
}

func (a *Assistant) toggleNotifications(_ context.Context, _ ToggleNotifications) error {
	if a.session.ToggleNotifications() {
		a.host.ShowInfo("🔔 Using notification popups for responses")
	} else {
		a.host.ShowInfo("📄 Using panels for responses")
	}
	return nil
}

func (a *Assistant) explainSelection(ctx context.Context, _ ExplainSelection) error {
	sel, err := a.selection("Please select the code you want me to explain!")
	if err != nil {
		return err
	}

	settings := a.session.Snapshot()
	a.presence.Set(Processing)
	defer a.presence.RestAfter(a.presence.Delays().Settle)

	response, err := a.complete(ctx, settings, prompt.GetExplainPrompt(sel.Text), true)
	if err != nil {
		return err
	}

	if settings.Notifications {
		a.host.ShowInfo("💡 Code Explanation:\n" + common.FormatBullets(response))
	} else {
		a.host.ShowPanel("💡 Code Explanation", response)
	}
	return nil
}

func (a *Assistant) suggestFix(ctx context.Context, _ SuggestFix) error {
	sel, err := a.selection("Please select the code you want me to improve!")
	if err != nil {
		return err
	}

	settings := a.session.Snapshot()
	a.presence.Set(Processing)

	response, err := a.complete(ctx, settings, prompt.GetFixPrompt(sel.Language, sel.Text), true)
	if err != nil {
		return err
	}

	fix := common.ParseCodeFix(response)
	fix.FixedCode = common.SanitizeCode(fix.FixedCode)

	var question string
	if settings.Notifications {
		a.host.ShowInfo("🔍 Issues Found: \n" + fix.Issues + "\n\n💡 Improvements: \n" + fix.Improvements)
		question = "🔧 Apply the suggested fixes?"
	} else {
		a.host.ShowPanel("🔧 Code Improvement", fixPanel(fix, sel.Language))
		question = "🔧 Apply Fix?"
	}

	choice, err := a.host.Confirm(ctx, question, applyOption, cancelOption)
	if err != nil {
		return err
	}
	if choice != applyOption {
		a.presence.Set(Resting)
		return nil
	}

	if err := a.host.ReplaceSelection(sel, fix.FixedCode); err != nil {
		return err
	}
	a.presence.Set(Success)
	a.host.ShowInfo("✨ Code fix applied!")
	return nil
}

func (a *Assistant) wakeAvatar(_ context.Context, _ WakeAvatar) error {
	a.presence.Hold(Attentive, a.presence.Delays().Playful)
	return nil
}

// selection returns the active non-empty selection
func (a *Assistant) selection(emptyMessage string) (Selection, error) {
	sel, ok := a.host.Selection()
	if !ok {
		return Selection{}, precondition("No code selected. Please select some code first!")
	}
	if strings.TrimSpace(sel.Text) == "" {
		return Selection{}, precondition(emptyMessage)
	}
	return sel, nil
}

func (a *Assistant) complete(ctx context.Context, settings common.Settings, userPrompt string, codeRelated bool) (string, error) {
	client, err := a.client(settings)
	if err != nil {
		return "", err
	}

	req := prompt.NewRequest(userPrompt, codeRelated, prompt.Tuning{
		Temperature: settings.Temperature,
		MaxTokens:   settings.MaxTokens,
	})
	return client.Prompt(ctx, req)
}

func fixPanel(fix model.CodeFix, language string) string {
	return "## 🔍 Issues Found\n" + fix.Issues + "\n\n" +
		"## 💡 Improvements\n" + fix.Improvements + "\n\n" +
		"## ✨ Fixed Code\n```" + language + "\n" + fix.FixedCode + "\n```\n"
}

func notEmpty(message string) func(string) string {
	return func(s string) string {
		if strings.TrimSpace(s) == "" {
			return message
		}
		return ""
	}
}
