package pipeline

import (
	"context"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/dealsift/dealsift/internal/jmap"
)

// ArchiveOptions configures the archive command.
type ArchiveOptions struct {
	IDs    []string
	DryRun bool
}

// Archive verifies that every given message id exists, then moves each from
// the inbox to the archive mailbox. Verification strictly precedes any move:
// if any id is missing, nothing is moved. Moves run in parallel and the
// command fails fast on the first move error. Returns the number of
// messages moved.
func Archive(ctx context.Context, client MailboxClient, opts ArchiveOptions) (int, error) {
	if len(opts.IDs) == 0 {
		return 0, &ValidationError{Reason: "no message ids given"}
	}
	for _, id := range opts.IDs {
		if id == "" {
			return 0, &ValidationError{Reason: "empty message id"}
		}
	}

	if err := client.Authenticate(ctx); err != nil {
		return 0, err
	}

	mailboxes, err := client.ListMailboxes(ctx)
	if err != nil {
		return 0, err
	}
	inbox, err := jmap.FindMailboxByRole(mailboxes, jmap.RoleInbox)
	if err != nil {
		return 0, err
	}
	archive, err := jmap.FindMailboxByRole(mailboxes, jmap.RoleArchive)
	if err != nil {
		return 0, err
	}

	verified, err := client.VerifyMessagesExist(ctx, opts.IDs)
	if err != nil {
		return 0, err
	}

	if opts.DryRun {
		log.Infof("dry run: would archive %d message(s)", len(verified))
		for _, id := range verified {
			log.Infof("  %s", id)
		}
		return len(verified), nil
	}

	var moved atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)
	for _, id := range verified {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ok, err := client.MoveMessage(gctx, id, inbox.ID, archive.ID)
			if err != nil {
				return err
			}
			if !ok {
				// Server reported neither an update nor a failure.
				log.WithField("id", id).Warn("message not moved")
				return nil
			}
			log.WithField("id", id).Info("archived")
			moved.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(moved.Load()), err
	}

	log.Infof("archived %d of %d message(s)", moved.Load(), len(verified))
	return int(moved.Load()), nil
}
