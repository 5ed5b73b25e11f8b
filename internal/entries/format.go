package entries

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jdholdren/retrodex/internal/dex"
)

const (
	// ContentMarker starts the plain text copy of every post.
	ContentMarker = "[retrodex]"
	// UploadMarker tags the placeholder messages the image upload flow leaves behind.
	UploadMarker = "[retrodex-upload]"
	// FooterSentinel is the footer text of every post's embed.
	FooterSentinel = "retrodex"

	postedSuffix = "の投稿"

	maxTitleRunes    = 256
	maxDescRunes     = 4096
	maxContentRunes  = 2000
	maxAnnounceRunes = 200
)

var (
	fieldLineRe = regexp.MustCompile(`^(title|episode|image|tags|age|author|author_id):\s?(.*)$`)
	postedRe    = regexp.MustCompile(`^(.+?)\s*` + postedSuffix)
	bracketRe   = regexp.MustCompile(`^\[[^\]]*\]\s*`)
)

// The fields recovered from a message's plain text.
type contentFields struct {
	Title    string
	Episode  string
	Image    string
	Author   string
	AuthorID string
	Tags     []string
	Age      *int
}

// Renders the plain text copy of an entry. Episode goes last so it can span
// lines, and is cut short to keep the message under the platform's limit.
func buildContent(e dex.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s\n", ContentMarker, e.Contributor.Name, postedSuffix)
	fmt.Fprintf(&b, "title: %s\n", e.Title)
	if e.ImageURL != "" {
		fmt.Fprintf(&b, "image: %s\n", e.ImageURL)
	}
	if len(e.Tags) > 0 {
		fmt.Fprintf(&b, "tags: %s\n", dex.JoinTags(e.Tags))
	}
	if e.Age != nil {
		fmt.Fprintf(&b, "age: %d\n", *e.Age)
	}
	fmt.Fprintf(&b, "author: %s\n", e.Contributor.Name)
	if e.Contributor.ID != "" {
		fmt.Fprintf(&b, "author_id: %s\n", e.Contributor.ID)
	}
	b.WriteString("episode: ")

	head := b.String()
	budget := maxContentRunes - utf8.RuneCountInString(head)
	return head + truncate(e.Episode, max(budget, 0))
}

// Reads the structured lines that follow the marker line.
func parseContent(content string) contentFields {
	var (
		f        contentFields
		inBody   bool
		key      string
		episodes []string
	)
	for _, line := range strings.Split(content, "\n") {
		if !inBody {
			if strings.HasPrefix(strings.TrimSpace(line), ContentMarker) {
				inBody = true
			}
			continue
		}

		// Episode is written last, everything after it is free text
		if key == "episode" {
			episodes = append(episodes, line)
			continue
		}
		m := fieldLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		key = m[1]
		val := strings.TrimSpace(m[2])
		switch key {
		case "title":
			f.Title = val
		case "episode":
			episodes = []string{m[2]}
		case "image":
			f.Image = val
		case "tags":
			f.Tags = dex.SplitTags(val)
		case "age":
			if n, err := strconv.Atoi(val); err == nil {
				f.Age = &n
			}
		case "author":
			f.Author = val
		case "author_id":
			f.AuthorID = val
		}
	}
	f.Episode = strings.TrimSpace(strings.Join(episodes, "\n"))

	return f
}

// Finds "<name> の投稿" in the content, ignoring a leading bracketed marker.
func postedName(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = bracketRe.ReplaceAllString(strings.TrimSpace(line), "")
		if m := postedRe.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// Cuts s down to n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
