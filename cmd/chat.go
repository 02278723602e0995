package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bitrise-io/bitrise-plugins-code-assistant/assistant"
	"github.com/bitrise-io/bitrise-plugins-code-assistant/logger"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const chatHelp = `Type a question, or one of:
  /explain <file> [start:end]   explain the selected lines
  /fix <file> [start:end]       suggest a fix and optionally apply it
  /model                        change the model
  /key                          set the API key
  /notifications                toggle notifications and panels
  /wake                         wake the assistant up
  /help                         show this help
  /quit                         leave the chat
Full command names such as /suggest-fix work as well.`

// chatInput is one parsed line of the chat session
type chatInput struct {
	command assistant.Command
	file    string
	lines   string
	help    bool
	quit    bool
}

// chatAliases are the short names of the commands; full kind names like /suggest-fix work too
var chatAliases = map[string]assistant.Kind{
	"/explain":       assistant.KindExplainSelection,
	"/fix":           assistant.KindSuggestFix,
	"/model":         assistant.KindSelectModel,
	"/key":           assistant.KindSetAPIKey,
	"/notifications": assistant.KindToggleNotifications,
	"/wake":          assistant.KindWakeAvatar,
}

func parseChatLine(line string) (chatInput, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return chatInput{command: assistant.AskQuestion{Question: line}}, nil
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return chatInput{quit: true}, nil
	case "/help":
		return chatInput{help: true}, nil
	}

	kind, ok := chatAliases[fields[0]]
	if !ok {
		if kind, ok = assistant.ParseKind(strings.TrimPrefix(fields[0], "/")); !ok {
			return chatInput{}, fmt.Errorf("unknown command %s, type /help", fields[0])
		}
	}

	var input chatInput
	switch kind {
	case assistant.KindAskQuestion:
		input.command = assistant.AskQuestion{Question: strings.TrimSpace(strings.TrimPrefix(line, fields[0]))}
	case assistant.KindSetAPIKey:
		input.command = assistant.SetAPIKey{}
	case assistant.KindSelectModel:
		input.command = assistant.SelectModel{}
	case assistant.KindToggleNotifications:
		input.command = assistant.ToggleNotifications{}
	case assistant.KindWakeAvatar:
		input.command = assistant.WakeAvatar{}
	case assistant.KindExplainSelection, assistant.KindSuggestFix:
		if len(fields) < 2 {
			return chatInput{}, fmt.Errorf("usage: %s <file> [start:end]", fields[0])
		}
		if kind == assistant.KindExplainSelection {
			input.command = assistant.ExplainSelection{}
		} else {
			input.command = assistant.SuggestFix{}
		}
		input.file = fields[1]
		if len(fields) > 2 {
			input.lines = fields[2]
		}
	}
	return input, nil
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive assistant session",
	Long:  `Keep the assistant open and run questions and commands one after another. Settings changes apply immediately.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, terminal, closeFn, err := newAssistant()
		if err != nil {
			return err
		}
		defer closeFn()

		terminal.ShowInfo("🐱 Hi! " + chatHelp)
		if err := a.Welcome(cmd.Context()); err != nil {
			logger.Debugf("Welcome failed: %v", err)
		}
		a.Presence().Set(assistant.Attentive)

		for {
			line, err := terminal.ReadLine("🐱> ")
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				return nil
			}
			if err != nil {
				return err
			}
			if strings.TrimSpace(line) == "" {
				continue
			}

			input, err := parseChatLine(line)
			if err != nil {
				terminal.ShowError(err.Error())
				continue
			}
			if input.quit {
				return nil
			}
			if input.help {
				terminal.ShowInfo(chatHelp)
				continue
			}

			if input.file != "" {
				if err := selectFile(terminal, input.file, input.lines); err != nil {
					terminal.ShowError("Error: " + err.Error())
					continue
				}
			}

			// errors were already shown by the assistant
			if err := a.Dispatch(cmd.Context(), input.command); err != nil {
				logger.Debugf("Command %s failed: %v", input.command.Kind(), err)
			}
			if cmd.Context().Err() != nil {
				return nil
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
