package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/dealsift/dealsift/internal/content"
)

// maxWorkers bounds parallel per-item work across the commands. Each item's
// side effects are a single independent file write or remote mutation.
const maxWorkers = 4

// GetImageOptions configures the get-image command.
type GetImageOptions struct {
	Inputs    []string
	OutputDir string
}

// GetImage renders each sidecar file's message to a PNG named after the
// input's base name. Inputs are validated to exist before any rendering
// starts; after that, a broken input is logged and skipped. Returns the
// number of screenshots written.
func GetImage(ctx context.Context, renderer Renderer, opts GetImageOptions) (int, error) {
	if len(opts.Inputs) == 0 {
		return 0, &ValidationError{Reason: "no input files given"}
	}
	seen := make(map[string]string, len(opts.Inputs))
	for _, input := range opts.Inputs {
		if _, err := os.Stat(input); err != nil {
			return 0, &FilesystemError{Path: input, Err: err}
		}
		// Outputs are named by input base name; a clash would mean the last
		// parallel write wins silently.
		base := outputBase(input)
		if prev, ok := seen[base]; ok && base != "" {
			return 0, &ValidationError{
				Reason: fmt.Sprintf("inputs %s and %s would both write %s.png", prev, input, base),
			}
		}
		seen[base] = input
	}
	if err := ensureDir(opts.OutputDir); err != nil {
		return 0, err
	}

	var rendered, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)
	for _, input := range opts.Inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path, err := renderOne(gctx, renderer, input, opts.OutputDir)
			if err != nil {
				log.WithField("input", input).Errorf("render failed: %v", err)
				failed.Add(1)
				return nil
			}
			log.WithField("output", path).Info("screenshot written")
			rendered.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(rendered.Load()), err
	}

	log.Infof("rendered %d of %d input(s)", rendered.Load(), len(opts.Inputs))
	if n := failed.Load(); n > 0 {
		return int(rendered.Load()), &ItemFailuresError{Failed: int(n), Total: len(opts.Inputs)}
	}
	return int(rendered.Load()), nil
}

func renderOne(ctx context.Context, renderer Renderer, input, outputDir string) (string, error) {
	msg, err := readSidecar(input)
	if err != nil {
		return "", err
	}

	base := outputBase(input)
	if base == "" {
		base = msg.ID
	}
	outputPath := filepath.Join(outputDir, base+".png")

	return renderer.Render(ctx, content.DisplayHTML(msg), outputPath)
}

func outputBase(input string) string {
	return strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
}
