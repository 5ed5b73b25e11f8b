package dex_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdholdren/retrodex/internal/dex"
)

func TestNormalizeTags(t *testing.T) {
	got := dex.NormalizeTags([]string{"a", "a", " b ", "", "c", "d", "e", "f"})
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, got)
}

func TestNormalizeTags_CaseSensitive(t *testing.T) {
	got := dex.NormalizeTags([]string{"Famicom", "famicom", "  "})
	assert.Equal(t, []string{"Famicom", "famicom"}, got)
}

func TestNormalizeTags_Empty(t *testing.T) {
	assert.Equal(t, []string{}, dex.NormalizeTags(nil))
	assert.Equal(t, []string{}, dex.SplitTags(""))
}

func TestNormalizeTags_SplitsCommas(t *testing.T) {
	got := dex.NormalizeTags([]string{"a,b", "c", "d", "e", "f"})
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, got)
	assert.Equal(t, got, dex.SplitTags(dex.JoinTags(got)))
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"x", "y"}, dex.SplitTags("x, y,,x"))
}

func TestParseAge(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *int
	}{
		{name: "number", raw: `12`, want: ptr(12)},
		{name: "numeric string", raw: `"34"`, want: ptr(34)},
		{name: "fraction truncates", raw: `7.9`, want: ptr(7)},
		{name: "null", raw: `null`, want: nil},
		{name: "missing", raw: ``, want: nil},
		{name: "words", raw: `"old"`, want: nil},
		{name: "not a number", raw: `"NaN"`, want: nil},
		{name: "infinite", raw: `"Infinity"`, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dex.ParseAge(json.RawMessage(tt.raw)))
		})
	}
}

func TestParseLikeAction(t *testing.T) {
	a, err := dex.ParseLikeAction("")
	require.NoError(t, err)
	assert.Equal(t, dex.ActionToggle, a)

	a, err = dex.ParseLikeAction(" LIKE ")
	require.NoError(t, err)
	assert.Equal(t, dex.ActionLike, a)

	_, err = dex.ParseLikeAction("love")
	assert.Error(t, err)
}

func TestLikeActionResolve(t *testing.T) {
	tests := []struct {
		action       dex.LikeAction
		present      bool
		wantPresent  bool
		wantReported string
	}{
		{dex.ActionLike, false, true, "like"},
		{dex.ActionLike, true, true, "noop"},
		{dex.ActionUnlike, true, false, "unlike"},
		{dex.ActionUnlike, false, false, "noop"},
		{dex.ActionToggle, false, true, "like"},
		{dex.ActionToggle, true, false, "unlike"},
	}

	for _, tt := range tests {
		want, reported := tt.action.Resolve(tt.present)
		assert.Equal(t, tt.wantPresent, want, "%s from present=%v", tt.action, tt.present)
		assert.Equal(t, tt.wantReported, reported, "%s from present=%v", tt.action, tt.present)
	}
}

func TestParseContributor(t *testing.T) {
	c, err := dex.ParseContributor(`{"id":"123","name":"mika","avatarUrl":"https://a/b.png"}`)
	require.NoError(t, err)
	assert.Equal(t, dex.Contributor{ID: "123", Name: "mika", AvatarURL: "https://a/b.png"}, c)

	_, err = dex.ParseContributor(`{"name":"mika"}`)
	assert.Error(t, err)
	_, err = dex.ParseContributor(`"mika"`)
	assert.Error(t, err)
	_, err = dex.ParseContributor(``)
	assert.Error(t, err)
}

func TestContributorOrDefault(t *testing.T) {
	got := dex.Contributor{Name: "mika"}.OrDefault()
	assert.Equal(t, dex.Contributor{ID: "guest", Name: "mika", AvatarURL: dex.DefaultAvatarURL}, got)
}

func ptr(i int) *int { return &i }
