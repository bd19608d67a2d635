package domain

import "time"

type Post struct {
	ID        string
	UserID    string
	Title     string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Comment struct {
	ID        string
	UserID    string
	PostID    string
	Body      string
	CreatedAt time.Time
}
