package domain

import "time"

// Activity actions recorded against a user's feed.
const (
	ActivitySignedUp       = "signed_up"
	ActivityCreatedPost    = "created_post"
	ActivityCreatedComment = "created_comment"
)

type Activity struct {
	ID        string
	UserID    string
	PostID    string // empty when the action has no subject post
	Action    string
	CreatedAt time.Time
}

type Notification struct {
	ID        string
	UserID    string // recipient
	PostID    string
	Message   string
	Read      bool
	CreatedAt time.Time
}
