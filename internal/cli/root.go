// Package cli wires the dealsift commands: flag parsing, env fallbacks, and
// the mapping from component errors to user-facing messages.
package cli

import (
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Environment fallbacks for credentials and the API key.
const (
	EnvUsername   = "JMAP_USERNAME"
	EnvPassword   = "JMAP_PASSWORD"
	EnvAPIKey     = "GEMINI_API_KEY"
	EnvSessionURL = "JMAP_SESSION_URL"
)

// NewRootCmd builds the dealsift command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dealsift",
		Short: "Extract deal information from marketing emails",
		Long: `Dealsift pulls emails from a JMAP mailbox, renders them to PNG
screenshots with headless Chrome, and extracts structured deal information
(sales, coupon codes) from the screenshots with the Gemini vision API.`,
		Version:       Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(getEmailsCmd())
	rootCmd.AddCommand(getImageCmd())
	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(archiveCmd())

	return rootCmd
}

// fromEnv returns the flag value, or the named environment variable when the
// flag was not set.
func fromEnv(value, envKey string) string {
	if value != "" {
		return value
	}
	return os.Getenv(envKey)
}

// Version reads the module version from build metadata.
func Version() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return "dev"
}
