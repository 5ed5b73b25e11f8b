// Package dex holds the domain types of the retro memories board: entries, the
// contributors that posted them, and the comments and likes hanging off of them.
package dex

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrConflict  = errors.New("resource already exists")
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("not allowed to act on this resource")
)

const (
	// DefaultTitle is shown when neither the feed nor the datastore has a title.
	DefaultTitle = "(untitled)"
	// UnknownContributor is the name used when no contributor can be recovered.
	UnknownContributor = "unknown"
	// GuestContributorID is assigned to posts made without a session.
	GuestContributorID = "guest"
	// DefaultAvatarURL is the platform's stock avatar.
	DefaultAvatarURL = "https://cdn.discordapp.com/embed/avatars/0.png"
)

type (
	// Contributor is the denormalized identity stored on entries and comments.
	Contributor struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatarUrl"`
	}

	// Entry is a single post on the board.
	Entry struct {
		ID           string      `json:"id"`
		Title        string      `json:"title"`
		Episode      string      `json:"episode"`
		ImageURL     string      `json:"imageUrl"`
		Tags         []string    `json:"tags"`
		Age          *int        `json:"age"`
		Contributor  Contributor `json:"contributor"`
		Likes        int         `json:"likes"`
		CommentCount int         `json:"commentCount"`
		CreatedAt    time.Time   `json:"createdAt"`
	}

	Comment struct {
		ID        string      `json:"id"`
		EntryID   string      `json:"entryId"`
		Body      string      `json:"body"`
		Author    Contributor `json:"author"`
		CreatedAt time.Time   `json:"createdAt"`
	}

	Like struct {
		ID         string    `json:"id"`
		EntryID    string    `json:"entryId"`
		UserID     string    `json:"userId"`
		UserName   string    `json:"userName"`
		UserAvatar string    `json:"userAvatar"`
		CreatedAt  time.Time `json:"createdAt"`
	}

	// User is someone who has logged in through the platform's OAuth.
	User struct {
		ID        string    `db:"id"`
		DiscordID string    `db:"discord_id"`
		Name      string    `db:"name"`
		AvatarURL string    `db:"avatar_url"`
		CreatedAt time.Time `db:"created_at"`
	}

	// LikeResult is the outcome of a like toggle.
	LikeResult struct {
		Likes     int    `json:"likes"`
		Action    string `json:"action"`
		UserLiked bool   `json:"userLiked"`
	}

	// CommentsArgs pages through an entry's comments, newest first.
	CommentsArgs struct {
		Cursor string // ID of the last comment already seen
		Limit  int
	}

	// UpdateEntryArgs holds the optional fields for updating an entry.
	UpdateEntryArgs struct {
		Title    *string
		Episode  *string
		ImageURL *string
		Tags     []string
	}
)

// Valid reports if the contributor carries enough to be trusted as an identity.
func (c Contributor) Valid() bool {
	return c.ID != "" && c.Name != ""
}

// OrDefault fills in whatever is missing with the guest identity.
func (c Contributor) OrDefault() Contributor {
	if c.ID == "" {
		c.ID = GuestContributorID
	}
	if c.Name == "" {
		c.Name = UnknownContributor
	}
	if c.AvatarURL == "" {
		c.AvatarURL = DefaultAvatarURL
	}
	return c
}

// ParseContributor reads a stored contributor blob. Anything that isn't a JSON
// object with both an id and a name is rejected.
func ParseContributor(raw string) (Contributor, error) {
	if raw == "" {
		return Contributor{}, errors.New("empty contributor")
	}

	var c Contributor
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return Contributor{}, err
	}
	if !c.Valid() {
		return Contributor{}, errors.New("contributor is missing an id or name")
	}

	return c, nil
}

type (
	// Repository is the Local Datastore.
	Repository interface {
		EntryRepo
		CommentRepo
		LikeRepo
		UserRepo

		Ping(ctx context.Context) error
	}

	EntryRepo interface {
		Entry(ctx context.Context, id string) (Entry, error)
		Entries(ctx context.Context, ids []string) ([]Entry, error)
		AllEntries(ctx context.Context) ([]Entry, error)
		InsertEntry(ctx context.Context, e Entry) (Entry, error)
		UpdateEntry(ctx context.Context, id string, args UpdateEntryArgs) error
		DeleteEntry(ctx context.Context, id string) error
		CommentCounts(ctx context.Context, entryIDs []string) (map[string]int, error)
	}

	CommentRepo interface {
		Comment(ctx context.Context, id string) (Comment, error)
		Comments(ctx context.Context, entryID string, args CommentsArgs) ([]Comment, error)
		InsertComment(ctx context.Context, c Comment) (Comment, error)
		UpdateComment(ctx context.Context, id, body string) (Comment, error)
		DeleteComment(ctx context.Context, id string) error
	}

	LikeRepo interface {
		ToggleLike(ctx context.Context, entryID string, liker Contributor, action LikeAction) (LikeResult, error)
		Likes(ctx context.Context, entryID string, limit int) ([]Like, error)
	}

	UserRepo interface {
		EnsureUser(ctx context.Context, usr User) (User, error)
		User(ctx context.Context, id string) (User, error)
	}
)
