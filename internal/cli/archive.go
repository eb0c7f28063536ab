package cli

import (
	"github.com/spf13/cobra"

	"github.com/dealsift/dealsift/internal/pipeline"
)

func archiveCmd() *cobra.Command {
	var (
		username string
		password string
		ids      []string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Move messages from the inbox to the archive mailbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := resolveCredentials(username, password)
			if err != nil {
				return err
			}

			client := newMailboxClient(creds)
			_, err = pipeline.Archive(cmd.Context(), client, pipeline.ArchiveOptions{
				IDs:    ids,
				DryRun: dryRun,
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "JMAP username (or "+EnvUsername+")")
	cmd.Flags().StringVarP(&password, "password", "p", "", "JMAP password (or "+EnvPassword+")")
	cmd.Flags().StringSliceVarP(&ids, "id", "i", nil, "message id to archive (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "verify messages without moving them")

	return cmd
}
