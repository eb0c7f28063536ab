package pipeline

import (
	"context"

	"github.com/dealsift/dealsift/internal/deals"
	"github.com/dealsift/dealsift/internal/jmap"
)

// MailboxClient is the slice of the JMAP adapter the orchestrators need.
type MailboxClient interface {
	Authenticate(ctx context.Context) error
	ListMailboxes(ctx context.Context) ([]jmap.Mailbox, error)
	QueryMessages(ctx context.Context, mailboxID string, limit int) ([]string, error)
	FetchMessages(ctx context.Context, ids []string) ([]jmap.Email, error)
	VerifyMessagesExist(ctx context.Context, ids []string) ([]string, error)
	MoveMessage(ctx context.Context, messageID, fromMailboxID, toMailboxID string) (bool, error)
}

// Renderer captures an HTML document to a PNG on disk.
type Renderer interface {
	Render(ctx context.Context, htmlDoc, outputPath string) (string, error)
}

// DealExtractor analyzes a rendered screenshot for deal information.
type DealExtractor interface {
	Extract(ctx context.Context, imagePNG []byte) (deals.DealRecord, error)
}
