package pipeline

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ExtractOptions configures the extract command. Images and Files are
// positionally paired.
type ExtractOptions struct {
	Images []string
	Files  []string
}

// Extract runs deal extraction on each (image, sidecar) pair and rewrites
// the sidecar in place with the resulting deal record. Count mismatches fail
// before any API call; after that, a broken pair is logged and skipped.
// Returns the number of sidecars updated.
func Extract(ctx context.Context, extractor DealExtractor, opts ExtractOptions) (int, error) {
	if len(opts.Images) == 0 {
		return 0, &ValidationError{Reason: "no images given"}
	}
	if len(opts.Images) != len(opts.Files) {
		return 0, &ValidationError{
			Reason: fmt.Sprintf("got %d image(s) but %d file(s); counts must match", len(opts.Images), len(opts.Files)),
		}
	}

	var updated, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)
	for i := range opts.Images {
		image, file := opts.Images[i], opts.Files[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := extractOne(gctx, extractor, image, file); err != nil {
				log.WithFields(log.Fields{"image": image, "file": file}).Errorf("extraction failed: %v", err)
				failed.Add(1)
				return nil
			}
			log.WithField("file", file).Info("deal info added")
			updated.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(updated.Load()), err
	}

	log.Infof("extracted deals for %d of %d pair(s)", updated.Load(), len(opts.Images))
	if n := failed.Load(); n > 0 {
		return int(updated.Load()), &ItemFailuresError{Failed: int(n), Total: len(opts.Images)}
	}
	return int(updated.Load()), nil
}

func extractOne(ctx context.Context, extractor DealExtractor, image, file string) error {
	imageData, err := os.ReadFile(image)
	if err != nil {
		return &FilesystemError{Path: image, Err: err}
	}

	record, err := extractor.Extract(ctx, imageData)
	if err != nil {
		return err
	}

	return mergeDealInfo(file, record)
}
