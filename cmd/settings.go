package cmd

import (
	"github.com/bitrise-io/bitrise-plugins-code-assistant/assistant"
	"github.com/spf13/cobra"
)

var setKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Store the API key",
	Long:  `Prompt for the API key and save it to the user settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatchOne(cmd, assistant.SetAPIKey{})
	},
}

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Select the model",
	Long:  `Prompt for the model name and save it to the user settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatchOne(cmd, assistant.SelectModel{})
	},
}

func dispatchOne(cmd *cobra.Command, c assistant.Command) error {
	a, _, closeFn, err := newAssistant()
	if err != nil {
		return err
	}
	defer closeFn()
	return reported(a.Dispatch(cmd.Context(), c))
}

func init() {
	rootCmd.AddCommand(setKeyCmd)
	rootCmd.AddCommand(modelCmd)
}
