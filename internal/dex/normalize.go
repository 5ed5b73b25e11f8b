package dex

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxTags is the most tags an entry can carry.
const MaxTags = 5

// NormalizeTags splits on commas, trims, drops empties, dedupes (first
// occurrence wins) and caps the list at MaxTags. Matching is case-sensitive.
// Tags are stored comma separated, so a tag can never hold a comma.
func NormalizeTags(in []string) []string {
	out := make([]string, 0, MaxTags)
	seen := make(map[string]struct{}, len(in))
	for _, raw := range in {
		for _, t := range strings.Split(raw, ",") {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
			if len(out) == MaxTags {
				return out
			}
		}
	}

	return out
}

// SplitTags reads a comma separated tag list.
func SplitTags(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return []string{}
	}
	return NormalizeTags([]string{csv})
}

// JoinTags is the inverse of SplitTags.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// ParseAge accepts a JSON number or numeric string and returns nil for anything
// empty, unparseable or non-finite. Fractions are truncated.
func ParseAge(raw json.RawMessage) *int {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		s = strings.TrimSpace(str)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return nil
	}

	age := int(math.Trunc(f))
	return &age
}

// LikeAction is what a caller wants the like state to become.
type LikeAction string

const (
	ActionLike   LikeAction = "like"
	ActionUnlike LikeAction = "unlike"
	ActionToggle LikeAction = "toggle"

	// Reported back when the request didn't change anything.
	ActionNoop = "noop"
)

// ParseLikeAction defaults an empty action to toggle and rejects anything unknown.
func ParseLikeAction(s string) (LikeAction, error) {
	switch a := LikeAction(strings.ToLower(strings.TrimSpace(s))); a {
	case "":
		return ActionToggle, nil
	case ActionLike, ActionUnlike, ActionToggle:
		return a, nil
	default:
		return "", fmt.Errorf("unknown like action %q", s)
	}
}

// Resolve returns whether the like should exist after the action is applied
// to the current state, and the action name to report.
func (a LikeAction) Resolve(present bool) (want bool, reported string) {
	switch a {
	case ActionLike:
		want = true
	case ActionUnlike:
		want = false
	default:
		want = !present
	}

	switch {
	case want == present:
		return want, ActionNoop
	case want:
		return want, string(ActionLike)
	default:
		return want, string(ActionUnlike)
	}
}
