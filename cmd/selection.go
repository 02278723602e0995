package cmd

import (
	"github.com/bitrise-io/bitrise-plugins-code-assistant/assistant"
	"github.com/bitrise-io/bitrise-plugins-code-assistant/host"
	"github.com/spf13/cobra"
)

// newSelectionCommand builds a command that runs c on a file selection
func newSelectionCommand(use, short, long string, c assistant.Command) *cobra.Command {
	command := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, terminal, closeFn, err := newAssistant()
			if err != nil {
				return err
			}
			defer closeFn()

			file, _ := cmd.Flags().GetString("file")
			lines, _ := cmd.Flags().GetString("lines")
			if err := selectFile(terminal, file, lines); err != nil {
				return err
			}

			return reported(a.Dispatch(cmd.Context(), c))
		},
	}

	command.Flags().StringP("file", "f", "", "File that holds the code")
	command.Flags().StringP("lines", "l", "", "Line range to select, e.g. 10:20 (optional, selects the whole file if not provided)")
	_ = command.MarkFlagRequired("file")
	return command
}

func selectFile(terminal *host.Terminal, file, lines string) error {
	start, end, err := host.ParseLineRange(lines)
	if err != nil {
		return err
	}
	return terminal.SelectFile(file, start, end)
}

func init() {
	rootCmd.AddCommand(newSelectionCommand(
		"explain",
		"Explain a piece of code",
		`Ask the AI for a short explanation of the selected code.`,
		assistant.ExplainSelection{},
	))
	rootCmd.AddCommand(newSelectionCommand(
		"fix",
		"Suggest and apply a code fix",
		`Ask the AI for issues, improvements and a fixed version of the selected code, then optionally write the fix back.`,
		assistant.SuggestFix{},
	))
}
