// Package deals extracts structured deal information (sales, coupon codes)
// from rendered email screenshots using the Gemini vision API.
package deals

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// maxRetries counts retries after the initial attempt: 3 attempts total.
const maxRetries = 2

const prompt = `This image is a screenshot of a marketing email. Extract any deal
information it contains. Report the sender's name, every sale mentioned (with
its discount and end date when shown), and every coupon code (with its
discount and expiration date when shown). If the email contains no sales or
coupon codes, return empty arrays.`

// Sale is one free-text sale entry extracted from an email.
type Sale struct {
	Description string `json:"description"`
	Discount    string `json:"discount,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
}

// CouponCode is one coupon entry extracted from an email.
type CouponCode struct {
	Code           string `json:"code"`
	Discount       string `json:"discount,omitempty"`
	ExpirationDate string `json:"expirationDate,omitempty"`
}

// DealRecord is the structured extraction result for one email.
type DealRecord struct {
	Sender      string       `json:"sender"`
	Sales       []Sale       `json:"sales"`
	CouponCodes []CouponCode `json:"couponCodes"`
}

// ErrorKind tags the failure class of an extraction.
type ErrorKind int

const (
	// KindAPIKey means no API key was supplied.
	KindAPIKey ErrorKind = iota
	// KindTransport means the backend call failed.
	KindTransport
	// KindSchema means the backend's response was not valid JSON per the
	// requested schema.
	KindSchema
)

func (k ErrorKind) String() string {
	switch k {
	case KindAPIKey:
		return "api key"
	case KindTransport:
		return "transport"
	case KindSchema:
		return "schema"
	}
	return "unknown"
}

// Error is the closed error type for the extraction client. Raw holds the
// offending response text for KindSchema failures.
type Error struct {
	Kind ErrorKind
	Raw  string
	Err  error
}

func (e *Error) Error() string {
	msg := "deals: " + e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Raw != "" {
		msg += fmt.Sprintf(" (response: %q)", e.Raw)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// dealSchema constrains the model output to the DealRecord shape.
var dealSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"sender": {Type: genai.TypeString},
		"sales": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"description": {Type: genai.TypeString},
					"discount":    {Type: genai.TypeString},
					"endDate":     {Type: genai.TypeString},
				},
				Required: []string{"description"},
			},
		},
		"couponCodes": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"code":           {Type: genai.TypeString},
					"discount":       {Type: genai.TypeString},
					"expirationDate": {Type: genai.TypeString},
				},
				Required: []string{"code"},
			},
		},
	},
	Required: []string{"sender", "sales", "couponCodes"},
}

// Client calls the Gemini API with a fixed prompt and output schema.
type Client struct {
	apiKey string
	model  string
}

// NewClient validates the API key and builds a client.
func NewClient(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, &Error{Kind: KindAPIKey, Err: fmt.Errorf("no API key supplied")}
	}
	return &Client{apiKey: apiKey, model: defaultModel}, nil
}

// Extract sends a rendered PNG to the vision model and parses the
// schema-constrained JSON response into a DealRecord. Transport failures are
// retried with exponential backoff before giving up.
func (c *Client) Extract(ctx context.Context, imagePNG []byte) (DealRecord, error) {
	var record DealRecord

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return record, &Error{Kind: KindTransport, Err: err}
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(imagePNG, "image/png"),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   dealSchema,
	}

	var text string
	attempt := func() error {
		resp, err := client.Models.GenerateContent(ctx, c.model, contents, config)
		if err != nil {
			return err
		}
		text = resp.Text()
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	if err := backoff.Retry(attempt, policy); err != nil {
		return record, &Error{Kind: KindTransport, Err: err}
	}

	if err := json.Unmarshal([]byte(text), &record); err != nil {
		return record, &Error{Kind: KindSchema, Raw: text, Err: err}
	}
	return record, nil
}
