package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dexerrs "github.com/jdholdren/retrodex/internal/errors"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "  hello  ", want: "hello"},
		{name: "tags", in: "<b>Tom & Jerry</b>", want: "Tom & Jerry"},
		{name: "quotes", in: `it's "fine"`, want: `it's "fine"`},
		{name: "script", in: "<script>alert(1)</script>ok", want: "ok"},
		{name: "encoded markup stays encoded", in: "&lt;b&gt;hi&lt;/b&gt;", want: "&lt;b&gt;hi&lt;/b&gt;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitize(tt.in)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "<")
		})
	}
}

func TestCheckProfanity(t *testing.T) {
	require.NoError(t, checkProfanity("title", "", "a lovely day"))

	err := checkProfanity("body", "fuck this")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, dexerrs.Status(err))
}
