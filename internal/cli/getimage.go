package cli

import (
	"github.com/spf13/cobra"

	"github.com/dealsift/dealsift/internal/pipeline"
	"github.com/dealsift/dealsift/internal/render"
)

func getImageCmd() *cobra.Command {
	var (
		inputs []string
		output string
	)

	cmd := &cobra.Command{
		Use:   "get-image",
		Short: "Render saved messages to PNG screenshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := pipeline.GetImage(cmd.Context(), render.New(), pipeline.GetImageOptions{
				Inputs:    inputs,
				OutputDir: output,
			})
			return err
		},
	}

	cmd.Flags().StringSliceVarP(&inputs, "input", "i", nil, "message JSON file (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "./screenshots", "output directory")

	return cmd
}
