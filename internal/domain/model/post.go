package model

import "time"

type Post struct {
	ID      int64  `json:"id"`
	UserID  int64  `json:"userId"`
	Content string `json:"content"`
}

const EventPostCreated = "post.created"

// PostEvent is pushed to the post events queue after a post is stored.
type PostEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	PostID    int64     `json:"post_id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
