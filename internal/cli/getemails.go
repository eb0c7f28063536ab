package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dealsift/dealsift/internal/jmap"
	"github.com/dealsift/dealsift/internal/pipeline"
)

// allLimit is the --limit value meaning "no cap".
const allLimit = "all"

func getEmailsCmd() *cobra.Command {
	var (
		username string
		password string
		output   string
		limit    string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "get-emails",
		Short: "Fetch inbox messages and save each as a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := resolveCredentials(username, password)
			if err != nil {
				return err
			}
			parsedLimit, err := parseLimit(limit)
			if err != nil {
				return err
			}

			client := newMailboxClient(creds)
			_, err = pipeline.GetEmails(cmd.Context(), client, pipeline.GetEmailsOptions{
				OutputDir: output,
				Limit:     parsedLimit,
				DryRun:    dryRun,
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "JMAP username (or "+EnvUsername+")")
	cmd.Flags().StringVarP(&password, "password", "p", "", "JMAP password (or "+EnvPassword+")")
	cmd.Flags().StringVarP(&output, "output", "o", "./emails", "output directory")
	cmd.Flags().StringVarP(&limit, "limit", "l", "100", `maximum messages to fetch, or "all"`)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list matching messages without writing files")

	return cmd
}

func resolveCredentials(username, password string) (jmap.Credentials, error) {
	creds := jmap.Credentials{
		Username: fromEnv(username, EnvUsername),
		Password: fromEnv(password, EnvPassword),
	}
	if creds.Username == "" {
		return creds, &pipeline.ValidationError{Reason: "username required (flag -u or " + EnvUsername + ")"}
	}
	if creds.Password == "" {
		return creds, &pipeline.ValidationError{Reason: "password required (flag -p or " + EnvPassword + ")"}
	}
	return creds, nil
}

// parseLimit maps "all" to unbounded (zero) and rejects non-positive
// numbers before any network call.
func parseLimit(s string) (int, error) {
	if s == allLimit {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &pipeline.ValidationError{Reason: fmt.Sprintf("limit must be a number or %q, got %q", allLimit, s)}
	}
	if n <= 0 {
		return 0, &pipeline.ValidationError{Reason: fmt.Sprintf("limit must be positive, got %d", n)}
	}
	return n, nil
}

func newMailboxClient(creds jmap.Credentials) *jmap.Client {
	var opts []jmap.Option
	if url := os.Getenv(EnvSessionURL); url != "" {
		opts = append(opts, jmap.WithSessionURL(url))
	}
	return jmap.NewClient(creds, opts...)
}
