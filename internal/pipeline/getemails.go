// Package pipeline sequences the mailbox adapter, content extractor,
// renderer, and deal extraction client into the four dealsift commands.
//
// Per-item failure policy, one per command: get-emails and archive fail
// fast, since a partial run against one remote store is harder to reason
// about than a clean retry; get-image and extract continue past per-item
// failures and count successes, since their inputs are independent local
// files.
package pipeline

import (
	"context"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/dealsift/dealsift/internal/jmap"
)

// GetEmailsOptions configures the get-emails command.
type GetEmailsOptions struct {
	OutputDir string
	// Limit caps the number of messages fetched; zero or less means all.
	Limit  int
	DryRun bool
}

// GetEmails pulls the most recent inbox messages and persists each as a JSON
// sidecar file named by message id. Files are written sequentially in
// received-time-descending order, as returned by the query. Returns the
// number of files written.
func GetEmails(ctx context.Context, client MailboxClient, opts GetEmailsOptions) (int, error) {
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

	ids, err := client.QueryMessages(ctx, inbox.ID, opts.Limit)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		log.Info("no messages in inbox")
		return 0, nil
	}

	if opts.DryRun {
		log.Infof("dry run: would fetch %d message(s)", len(ids))
		for _, id := range ids {
			log.Infof("  %s", id)
		}
		return len(ids), nil
	}

	messages, err := client.FetchMessages(ctx, ids)
	if err != nil {
		return 0, err
	}

	if err := ensureDir(opts.OutputDir); err != nil {
		return 0, err
	}

	written := 0
	for _, msg := range messages {
		path := filepath.Join(opts.OutputDir, msg.ID+".json")
		if err := writeSidecar(path, msg); err != nil {
			return written, err
		}
		log.WithFields(log.Fields{"id": msg.ID, "subject": msg.Subject}).Info("saved message")
		written++
	}

	log.Infof("saved %d message(s) to %s", written, opts.OutputDir)
	return written, nil
}
