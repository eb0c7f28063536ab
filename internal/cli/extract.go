package cli

import (
	"github.com/spf13/cobra"

	"github.com/dealsift/dealsift/internal/deals"
	"github.com/dealsift/dealsift/internal/pipeline"
)

func extractCmd() *cobra.Command {
	var (
		images []string
		files  []string
		apiKey string
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract deal information from screenshots into their sidecar files",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Count validation runs before the API key check so a malformed
			// invocation fails the same way with or without a key.
			if len(images) != len(files) || len(images) == 0 {
				_, err := pipeline.Extract(cmd.Context(), nil, pipeline.ExtractOptions{
					Images: images,
					Files:  files,
				})
				return err
			}

			extractor, err := deals.NewClient(fromEnv(apiKey, EnvAPIKey))
			if err != nil {
				return err
			}
			_, err = pipeline.Extract(cmd.Context(), extractor, pipeline.ExtractOptions{
				Images: images,
				Files:  files,
			})
			return err
		},
	}

	cmd.Flags().StringSliceVarP(&images, "image", "i", nil, "screenshot PNG (repeatable, paired with --file)")
	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "message JSON file (repeatable, paired with --image)")
	cmd.Flags().StringVarP(&apiKey, "api-key", "k", "", "Gemini API key (or "+EnvAPIKey+")")

	return cmd
}
