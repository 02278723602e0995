package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/bitrise-io/bitrise-plugins-code-assistant/assistant"
	"github.com/bitrise-io/bitrise-plugins-code-assistant/common"
	"github.com/bitrise-io/bitrise-plugins-code-assistant/git"
	"github.com/bitrise-io/bitrise-plugins-code-assistant/host"
	"github.com/bitrise-io/bitrise-plugins-code-assistant/logger"
	"github.com/spf13/cobra"
)

var (
	// Command line flags
	logLevel   string
	usePanels  bool
	showAvatar bool
)

var rootCmd = &cobra.Command{
	Use:   "code-assistant",
	Short: "Friendly Code Assistant - ask an AI about your code",
	Long: `Friendly Code Assistant forwards questions and code selections to a chat completion API.
It can answer questions, explain code and suggest fixes that are applied back to the file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(logLevel)
		logger.Debugf("Log level set to: %s", logLevel)
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command and handles errors.
// Ctrl+C cancels the request in flight.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	var shown *reportedError
	if err != nil && !errors.As(err, &shown) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

// reportedError marks errors the assistant already showed to the user
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn",
		"Set the logging level (debug, info, warn, error, dpanic, panic, fatal)")
	rootCmd.PersistentFlags().BoolVar(&usePanels, "panel", false,
		"Show responses as rendered panels instead of notifications")
	rootCmd.PersistentFlags().BoolVar(&showAvatar, "avatar", false,
		"Print assistant presence changes to stderr")
}

// newSession loads user, workspace and environment settings
func newSession() (*common.Session, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	workspace := git.WorkspaceDir(git.NewDefaultRunner(wd), wd)
	logger.Debugf("Using workspace %s", workspace)

	store := common.NewStore(workspace)
	settings := common.WithEnv(store.Load())
	if usePanels {
		settings.Notifications = false
	}
	logger.Debugf("Using provider %s with model %s", settings.Provider, settings.Model)

	return common.NewSession(settings, store), nil
}

// newAssistant wires a terminal host to a fresh session. The returned close func restores the terminal.
func newAssistant() (*assistant.Assistant, *host.Terminal, func(), error) {
	session, err := newSession()
	if err != nil {
		return nil, nil, nil, err
	}

	terminal := host.NewTerminal(host.WithPresence(showAvatar))
	closeFn := func() {
		if err := terminal.Close(); err != nil {
			logger.Warnf("Failed to restore terminal: %v", err)
		}
	}
	return assistant.New(session, terminal), terminal, closeFn, nil
}
