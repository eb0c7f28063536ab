package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dealsift/dealsift/internal/deals"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExtract_MismatchedCountsFailBeforeAnyCall(t *testing.T) {
	// Two images, one file. A nil extractor proves no API call is made.
	_, err := Extract(context.Background(), nil, ExtractOptions{
		Images: []string{"a.png", "b.png"},
		Files:  []string{"a.json"},
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestExtract_NoImages(t *testing.T) {
	_, err := Extract(context.Background(), nil, ExtractOptions{})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestExtract_MergesDealInfoPreservingFields(t *testing.T) {
	dir := t.TempDir()
	image := writeTestFile(t, dir, "a.png", "png-bytes")
	sidecar := writeTestFile(t, dir, "a.json", `{
  "id": "m1",
  "subject": "Big Sale",
  "preview": "40% off",
  "customField": {"nested": true}
}`)

	record := deals.DealRecord{
		Sender: "Shop",
		Sales: []deals.Sale{
			{Description: "40% off everything", Discount: "40%", EndDate: "2026-08-31"},
		},
		CouponCodes: []deals.CouponCode{{Code: "SAVE40"}},
	}
	extractor := &stubExtractor{record: record}

	count, err := Extract(context.Background(), extractor, ExtractOptions{
		Images: []string{image},
		Files:  []string{sidecar},
	})
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Equal(t, 1, extractor.calls)

	data, err := os.ReadFile(sidecar)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))

	// Prior fields survive untouched in value.
	require.JSONEq(t, `"m1"`, string(doc["id"]))
	require.JSONEq(t, `"Big Sale"`, string(doc["subject"]))
	require.JSONEq(t, `"40% off"`, string(doc["preview"]))
	require.JSONEq(t, `{"nested": true}`, string(doc["customField"]))

	var got deals.DealRecord
	require.NoError(t, json.Unmarshal(doc["dealInfo"], &got))
	require.Equal(t, record, got)
}

func TestExtract_OverwritesExistingDealInfo(t *testing.T) {
	dir := t.TempDir()
	image := writeTestFile(t, dir, "a.png", "png-bytes")
	sidecar := writeTestFile(t, dir, "a.json",
		`{"id":"m1","dealInfo":{"sender":"Old","sales":[],"couponCodes":[]}}`)

	extractor := &stubExtractor{record: deals.DealRecord{Sender: "New"}}

	_, err := Extract(context.Background(), extractor, ExtractOptions{
		Images: []string{image},
		Files:  []string{sidecar},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(sidecar)
	require.NoError(t, err)
	var doc struct {
		DealInfo deals.DealRecord `json:"dealInfo"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Equal(t, "New", doc.DealInfo.Sender)
}

func TestExtract_ContinuesPastFailedPair(t *testing.T) {
	dir := t.TempDir()
	badImage := writeTestFile(t, dir, "bad.png", "broken")
	goodImage := writeTestFile(t, dir, "good.png", "fine")
	badSidecar := writeTestFile(t, dir, "bad.json", `{"id":"b"}`)
	goodSidecar := writeTestFile(t, dir, "good.json", `{"id":"g"}`)

	extractor := &stubExtractor{
		record:    deals.DealRecord{Sender: "Shop"},
		failImage: "broken",
		err:       &deals.Error{Kind: deals.KindSchema, Raw: "not json", Err: errors.New("parse")},
	}

	count, err := Extract(context.Background(), extractor, ExtractOptions{
		Images: []string{badImage, goodImage},
		Files:  []string{badSidecar, goodSidecar},
	})

	var itemErr *ItemFailuresError
	require.ErrorAs(t, err, &itemErr)
	require.Equal(t, 1, itemErr.Failed)
	require.Equal(t, 2, itemErr.Total)
	require.Equal(t, 1, count)

	// The good sidecar got its deal info; the bad one stayed untouched.
	data, _ := os.ReadFile(goodSidecar)
	require.Contains(t, string(data), "dealInfo")
	data, _ = os.ReadFile(badSidecar)
	require.NotContains(t, string(data), "dealInfo")
}

func TestExtract_MissingImageCountsAsFailure(t *testing.T) {
	dir := t.TempDir()
	sidecar := writeTestFile(t, dir, "a.json", `{"id":"m1"}`)

	extractor := &stubExtractor{}
	count, err := Extract(context.Background(), extractor, ExtractOptions{
		Images: []string{filepath.Join(dir, "missing.png")},
		Files:  []string{sidecar},
	})
	require.Error(t, err)
	require.Zero(t, count)
	require.Zero(t, extractor.calls)
}
