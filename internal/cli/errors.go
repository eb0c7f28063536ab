package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dealsift/dealsift/internal/deals"
	"github.com/dealsift/dealsift/internal/jmap"
	"github.com/dealsift/dealsift/internal/pipeline"
	"github.com/dealsift/dealsift/internal/render"
)

// FormatError maps every component error kind to its user-facing message.
// This is the single boundary where tagged errors become text.
func FormatError(err error) string {
	var jmapErr *jmap.Error
	if errors.As(err, &jmapErr) {
		switch jmapErr.Kind {
		case jmap.KindAuth:
			return "authentication failed: check your username and password"
		case jmap.KindNotFound:
			if len(jmapErr.MissingIDs) > 0 {
				return "messages not found: " + strings.Join(jmapErr.MissingIDs, ", ")
			}
			return jmapErr.Error()
		case jmap.KindAPI:
			return "mail server request failed: " + jmapErr.Error()
		}
	}

	var dealsErr *deals.Error
	if errors.As(err, &dealsErr) {
		switch dealsErr.Kind {
		case deals.KindAPIKey:
			return "Gemini API key required (flag -k or " + EnvAPIKey + ")"
		case deals.KindTransport:
			return "Gemini request failed: " + dealsErr.Error()
		case deals.KindSchema:
			return "Gemini response did not match the deal schema: " + dealsErr.Error()
		}
	}

	var renderErr *render.Error
	if errors.As(err, &renderErr) {
		return "screenshot failed: " + renderErr.Error()
	}

	var validationErr *pipeline.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Error()
	}

	var fsErr *pipeline.FilesystemError
	if errors.As(err, &fsErr) {
		return fsErr.Error()
	}

	var itemErr *pipeline.ItemFailuresError
	if errors.As(err, &itemErr) {
		return itemErr.Error() + "; see the log above for each failure"
	}

	return fmt.Sprintf("error: %v", err)
}
