package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"makdo/internal/api"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeConfig indicates invalid configuration or caller input.
	ExitCodeConfig = 2
)

// rootCmd represents the base command for the makdo application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "makdo",
	Short: "Multi-agent Kubernetes DevOps assistant",
	Long: `makdo periodically inspects Kubernetes clusters through a remote
diagnostic service, reports findings to a chat channel and optionally
triggers remediation. It manages the short-lived cluster sessions that
sub-agents use to query the diagnostic service.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// Called from the main package to inject the build version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "makdo version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode maps error types to semantic exit codes for scripting.
func getExitCode(err error) int {
	if api.IsValidation(err) {
		return ExitCodeConfig
	}
	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sessionCmd)
}
