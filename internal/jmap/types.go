package jmap

// Mailbox is a JMAP mailbox with its standard-role tag.
type Mailbox struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role,omitempty"`
	TotalEmails int    `json:"totalEmails"`
}

// Mailbox roles defined by RFC 8621 that this tool cares about.
const (
	RoleInbox   = "inbox"
	RoleArchive = "archive"
)

// EmailAddress is a sender or recipient entry.
type EmailAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// BodyPart references a body blob by part id.
type BodyPart struct {
	PartID string `json:"partId"`
	Type   string `json:"type"`
}

// BodyValue holds the fetched content for a body part.
type BodyValue struct {
	Value       string `json:"value"`
	IsTruncated bool   `json:"isTruncated"`
}

// Email is the subset of JMAP Email properties the pipelines use.
type Email struct {
	ID            string               `json:"id"`
	ThreadID      string               `json:"threadId"`
	MailboxIDs    map[string]bool      `json:"mailboxIds"`
	Keywords      map[string]bool      `json:"keywords,omitempty"`
	From          []EmailAddress       `json:"from"`
	To            []EmailAddress       `json:"to"`
	CC            []EmailAddress       `json:"cc,omitempty"`
	Subject       string               `json:"subject"`
	ReceivedAt    string               `json:"receivedAt"`
	SentAt        string               `json:"sentAt,omitempty"`
	Preview       string               `json:"preview"`
	HasAttachment bool                 `json:"hasAttachment"`
	HTMLBody      []BodyPart           `json:"htmlBody"`
	TextBody      []BodyPart           `json:"textBody"`
	BodyValues    map[string]BodyValue `json:"bodyValues"`
}
