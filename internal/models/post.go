package models

import "time"

type Post struct {
	ID        int64
	UserID    int64
	ImageURL  string
	Caption   *string
	CreatedAt time.Time
}

// UnknownAuthor is shown for posts whose author row could not be resolved.
const UnknownAuthor = "unknown user"

// FeedItem is a post joined with its author. Author is nil when the author
// is unknown, e.g. a stale follow edge to a deleted user.
type FeedItem struct {
	Post
	Author *UserSummary
}

// AuthorName returns the display name of the author or UnknownAuthor.
func (f FeedItem) AuthorName() string {
	if f.Author == nil {
		return UnknownAuthor
	}
	return f.Author.DisplayName()
}
