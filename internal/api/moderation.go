package api

import (
	"net/http"
	"strings"

	goaway "github.com/TwiN/go-away"
	"github.com/microcosm-cc/bluemonday"

	dexerrs "github.com/jdholdren/retrodex/internal/errors"
)

var (
	stripPolicy = bluemonday.StrictPolicy()

	// Only the entities the policy writes for plain text. Anything else the
	// caller sent encoded stays encoded.
	plainEntities = strings.NewReplacer("&amp;", "&", "&#39;", "'", "&#34;", `"`)
)

// Strips any markup from user supplied text.
func sanitize(s string) string {
	return strings.TrimSpace(plainEntities.Replace(stripPolicy.Sanitize(s)))
}

// Rejects text that trips the profanity filter.
func checkProfanity(field string, values ...string) error {
	for _, v := range values {
		if v != "" && goaway.IsProfane(v) {
			return dexerrs.E(
				http.StatusUnprocessableEntity,
				"profanity detected",
				dexerrs.Detail{Field: field, Error: "contains profanity"},
			)
		}
	}
	return nil
}
