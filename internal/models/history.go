package models

import "time"

// DefaultComment is stored when a listening is recorded without a comment.
const DefaultComment = "No Comments."

// Listening records that an album was played at ListenedAt.
type Listening struct {
	ID         int64     `json:"id"`
	AlbumID    int64     `json:"album_id"`
	ListenedAt time.Time `json:"listened_at"`
	Comment    string    `json:"comment"`
}

// Note is a free-text annotation. Timestamp is whatever the client supplied.
type Note struct {
	ID        int64  `json:"id"`
	AlbumID   int64  `json:"album_id"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}
