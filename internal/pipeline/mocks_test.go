package pipeline

import (
	"context"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/dealsift/dealsift/internal/deals"
	"github.com/dealsift/dealsift/internal/jmap"
)

type mockMailboxClient struct {
	mock.Mock
}

func (m *mockMailboxClient) Authenticate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockMailboxClient) ListMailboxes(ctx context.Context) ([]jmap.Mailbox, error) {
	args := m.Called(ctx)
	boxes, _ := args.Get(0).([]jmap.Mailbox)
	return boxes, args.Error(1)
}

func (m *mockMailboxClient) QueryMessages(ctx context.Context, mailboxID string, limit int) ([]string, error) {
	args := m.Called(ctx, mailboxID, limit)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *mockMailboxClient) FetchMessages(ctx context.Context, ids []string) ([]jmap.Email, error) {
	args := m.Called(ctx, ids)
	msgs, _ := args.Get(0).([]jmap.Email)
	return msgs, args.Error(1)
}

func (m *mockMailboxClient) VerifyMessagesExist(ctx context.Context, ids []string) ([]string, error) {
	args := m.Called(ctx, ids)
	verified, _ := args.Get(0).([]string)
	return verified, args.Error(1)
}

func (m *mockMailboxClient) MoveMessage(ctx context.Context, messageID, fromMailboxID, toMailboxID string) (bool, error) {
	args := m.Called(ctx, messageID, fromMailboxID, toMailboxID)
	return args.Bool(0), args.Error(1)
}

// stubRenderer records render calls; safe for parallel use.
type stubRenderer struct {
	mu    sync.Mutex
	paths []string
	// failInputs maps an HTML substring to an error for that render.
	failOn string
	err    error
}

func (s *stubRenderer) Render(ctx context.Context, htmlDoc, outputPath string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn != "" && strings.Contains(htmlDoc, s.failOn) {
		return "", s.err
	}
	s.paths = append(s.paths, outputPath)
	return outputPath, nil
}

// stubExtractor returns a fixed record, or an error for images whose bytes
// match failImage; safe for parallel use.
type stubExtractor struct {
	mu        sync.Mutex
	record    deals.DealRecord
	failImage string
	err       error
	calls     int
}

func (s *stubExtractor) Extract(ctx context.Context, imagePNG []byte) (deals.DealRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failImage != "" && string(imagePNG) == s.failImage {
		return deals.DealRecord{}, s.err
	}
	return s.record, nil
}
