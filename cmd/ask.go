package cmd

import (
	"strings"

	"github.com/bitrise-io/bitrise-plugins-code-assistant/assistant"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the assistant a question",
	Long:  `Send a general question to the AI and show the answer.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, terminal, closeFn, err := newAssistant()
		if err != nil {
			return err
		}
		defer closeFn()

		question := strings.Join(args, " ")
		if strings.TrimSpace(question) == "" {
			if question, err = terminal.ReadLine("Ask me anything: "); err != nil {
				return err
			}
		}

		return reported(a.Dispatch(cmd.Context(), assistant.AskQuestion{Question: question}))
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
