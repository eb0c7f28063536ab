// Package jmap is a minimal JMAP mail client covering the operations the
// dealsift pipelines need: session auth, mailbox lookup, message query,
// fetch, existence checks, and single-message moves.
package jmap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultSessionURL is the Fastmail JMAP session endpoint. Override with
// WithSessionURL for other providers or tests.
const DefaultSessionURL = "https://api.fastmail.com/jmap/session"

const mailCapability = "urn:ietf:params:jmap:mail"

// maxRetries counts retries after the initial attempt: 3 attempts total.
const maxRetries = 2

// Credentials authenticate the JMAP session via HTTP Basic auth.
type Credentials struct {
	Username string
	Password string
}

// Client talks to a JMAP server. Call Authenticate before any other method.
type Client struct {
	creds      Credentials
	sessionURL string
	httpClient *http.Client

	accountID string
	apiURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithSessionURL points the client at a non-default session endpoint.
func WithSessionURL(url string) Option {
	return func(c *Client) { c.sessionURL = url }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient builds an unauthenticated client.
func NewClient(creds Credentials, opts ...Option) *Client {
	c := &Client{
		creds:      creds,
		sessionURL: DefaultSessionURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type sessionResponse struct {
	PrimaryAccounts map[string]string `json:"primaryAccounts"`
	APIURL          string            `json:"apiUrl"`
}

// Authenticate fetches the session object and resolves the primary mail
// account id and API URL.
func (c *Client) Authenticate(ctx context.Context) error {
	body, err := c.do(ctx, "authenticate", http.MethodGet, c.sessionURL, nil)
	if err != nil {
		return err
	}

	var session sessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return apiErr("authenticate", fmt.Errorf("decode session response: %w", err))
	}

	accountID, ok := session.PrimaryAccounts[mailCapability]
	if !ok {
		return authErr("authenticate", fmt.Errorf("no primary mail account in session"))
	}

	c.accountID = accountID
	c.apiURL = session.APIURL
	return nil
}

// AccountID returns the primary mail account id resolved by Authenticate.
func (c *Client) AccountID() string { return c.accountID }

// do runs one HTTP round trip with bounded retry on transport-class failures.
func (c *Client) do(ctx context.Context, op, method, url string, payload []byte) ([]byte, error) {
	var body []byte

	attempt := func() error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return backoff.Permanent(apiErr(op, err))
		}
		req.SetBasicAuth(c.creds.Username, c.creds.Password)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return apiErr(op, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			msg, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(authErr(op, fmt.Errorf("status %d: %s", resp.StatusCode, msg)))
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			msg, _ := io.ReadAll(resp.Body)
			return apiErr(op, fmt.Errorf("status %d: %s", resp.StatusCode, msg))
		default:
			msg, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(apiErr(op, fmt.Errorf("status %d: %s", resp.StatusCode, msg)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return apiErr(op, err)
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	if err := backoff.Retry(attempt, policy); err != nil {
		return nil, err
	}
	return body, nil
}

type apiResponse struct {
	MethodResponses [][]json.RawMessage `json:"methodResponses"`
}

// call issues a single-method JMAP request and returns the method's args.
func (c *Client) call(ctx context.Context, op, method string, args any) (json.RawMessage, error) {
	request := map[string]any{
		"using": []string{"urn:ietf:params:jmap:core", mailCapability},
		"methodCalls": []any{
			[]any{method, args, "0"},
		},
	}
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, apiErr(op, err)
	}

	body, err := c.do(ctx, op, http.MethodPost, c.apiURL, payload)
	if err != nil {
		return nil, err
	}

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apiErr(op, fmt.Errorf("decode response: %w", err))
	}
	if len(resp.MethodResponses) == 0 || len(resp.MethodResponses[0]) < 2 {
		return nil, apiErr(op, fmt.Errorf("unexpected response shape"))
	}

	var name string
	if err := json.Unmarshal(resp.MethodResponses[0][0], &name); err != nil {
		return nil, apiErr(op, fmt.Errorf("decode method name: %w", err))
	}
	if name == "error" {
		var methodErr struct {
			Type        string `json:"type"`
			Description string `json:"description"`
		}
		_ = json.Unmarshal(resp.MethodResponses[0][1], &methodErr)
		return nil, apiErr(op, fmt.Errorf("server error %q: %s", methodErr.Type, methodErr.Description))
	}

	return resp.MethodResponses[0][1], nil
}

// ListMailboxes fetches every mailbox in the account. An empty account
// yields an empty slice, not an error.
func (c *Client) ListMailboxes(ctx context.Context) ([]Mailbox, error) {
	args, err := c.call(ctx, "list mailboxes", "Mailbox/get", map[string]any{
		"accountId": c.accountID,
		"ids":       nil,
	})
	if err != nil {
		return nil, err
	}

	var result struct {
		List []Mailbox `json:"list"`
	}
	if err := json.Unmarshal(args, &result); err != nil {
		return nil, apiErr("list mailboxes", fmt.Errorf("decode mailbox list: %w", err))
	}
	return result.List, nil
}

// FindMailboxByRole returns the first mailbox with the given role, in the
// order the server provided them. Servers are expected to have at most one
// mailbox per role; no further tie-break is applied.
func FindMailboxByRole(mailboxes []Mailbox, role string) (Mailbox, error) {
	for _, mb := range mailboxes {
		if mb.Role == role {
			return mb, nil
		}
	}
	return Mailbox{}, notFoundErr("find mailbox", fmt.Errorf("no mailbox with role %q", role))
}

// QueryMessages returns message ids in a mailbox, most recently received
// first. A limit of zero or less means unbounded and omits the limit
// property from the request entirely.
func (c *Client) QueryMessages(ctx context.Context, mailboxID string, limit int) ([]string, error) {
	args := map[string]any{
		"accountId": c.accountID,
		"filter":    map[string]any{"inMailbox": mailboxID},
		"sort": []map[string]any{
			{"property": "receivedAt", "isAscending": false},
		},
	}
	if limit > 0 {
		args["limit"] = limit
	}

	raw, err := c.call(ctx, "query messages", "Email/query", args)
	if err != nil {
		return nil, err
	}

	var result struct {
		IDs []string `json:"ids"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, apiErr("query messages", fmt.Errorf("decode query response: %w", err))
	}
	return result.IDs, nil
}

// FetchMessages retrieves full message details, including body values.
// An empty id list short-circuits without a network call.
func (c *Client) FetchMessages(ctx context.Context, ids []string) ([]Email, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	raw, err := c.call(ctx, "fetch messages", "Email/get", map[string]any{
		"accountId": c.accountID,
		"ids":       ids,
		"properties": []string{
			"id", "threadId", "mailboxIds", "keywords", "from", "to", "cc",
			"subject", "receivedAt", "sentAt", "preview", "hasAttachment",
			"htmlBody", "textBody", "bodyValues",
		},
		"fetchHTMLBodyValues": true,
		"fetchTextBodyValues": true,
	})
	if err != nil {
		return nil, err
	}

	var result struct {
		List []Email `json:"list"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, apiErr("fetch messages", fmt.Errorf("decode email response: %w", err))
	}
	return result.List, nil
}

// VerifyMessagesExist checks that every id is present on the server and
// echoes the input ids back. Missing ids fail with a not-found error that
// carries the full missing list.
func (c *Client) VerifyMessagesExist(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	raw, err := c.call(ctx, "verify messages", "Email/get", map[string]any{
		"accountId":  c.accountID,
		"ids":        ids,
		"properties": []string{"id"},
	})
	if err != nil {
		return nil, err
	}

	var result struct {
		NotFound []string `json:"notFound"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, apiErr("verify messages", fmt.Errorf("decode email response: %w", err))
	}
	if len(result.NotFound) > 0 {
		return nil, &Error{
			Kind:       KindNotFound,
			Op:         "verify messages",
			MissingIDs: result.NotFound,
		}
	}
	return ids, nil
}

// MoveMessage removes the message from one mailbox and adds it to another in
// a single Email/set patch. It returns true when the server reports the
// message updated, false when the server reports neither success nor a
// per-item failure.
func (c *Client) MoveMessage(ctx context.Context, messageID, fromMailboxID, toMailboxID string) (bool, error) {
	raw, err := c.call(ctx, "move message", "Email/set", map[string]any{
		"accountId": c.accountID,
		"update": map[string]any{
			messageID: map[string]any{
				"mailboxIds/" + fromMailboxID: nil,
				"mailboxIds/" + toMailboxID:   true,
			},
		},
	})
	if err != nil {
		return false, err
	}

	var result struct {
		Updated    map[string]json.RawMessage `json:"updated"`
		NotUpdated map[string]struct {
			Type        string `json:"type"`
			Description string `json:"description"`
		} `json:"notUpdated"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return false, apiErr("move message", fmt.Errorf("decode set response: %w", err))
	}

	if setErr, ok := result.NotUpdated[messageID]; ok {
		return false, apiErr("move message", fmt.Errorf("%s: %s", setErr.Type, setErr.Description))
	}
	if _, ok := result.Updated[messageID]; ok {
		return true, nil
	}
	return false, nil
}
