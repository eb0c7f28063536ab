package pipeline

import (
	"encoding/json"
	"os"

	"github.com/dealsift/dealsift/internal/deals"
	"github.com/dealsift/dealsift/internal/jmap"
)

// dealInfoKey is the field the extract command adds to a sidecar file.
const dealInfoKey = "dealInfo"

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &FilesystemError{Path: dir, Err: err}
	}
	return nil
}

func writeSidecar(path string, msg jmap.Email) error {
	data, err := json.MarshalIndent(msg, "", "  ")
	if err != nil {
		return &FilesystemError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &FilesystemError{Path: path, Err: err}
	}
	return nil
}

func readSidecar(path string) (jmap.Email, error) {
	var msg jmap.Email
	data, err := os.ReadFile(path)
	if err != nil {
		return msg, &FilesystemError{Path: path, Err: err}
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, &FilesystemError{Path: path, Err: err}
	}
	return msg, nil
}

// mergeDealInfo rewrites the sidecar in place with the deal record added
// under dealInfoKey. Fields it does not know about survive the round trip
// because the file is handled as raw JSON, not retyped.
func mergeDealInfo(path string, record deals.DealRecord) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &FilesystemError{Path: path, Err: err}
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return &FilesystemError{Path: path, Err: err}
	}

	encoded, err := json.Marshal(record)
	if err != nil {
		return &FilesystemError{Path: path, Err: err}
	}
	doc[dealInfoKey] = encoded

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &FilesystemError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return &FilesystemError{Path: path, Err: err}
	}
	return nil
}
