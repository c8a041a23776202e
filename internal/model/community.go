package model

import "time"

type ForumPost struct {
	ID           string       `db:"id" json:"id"`
	AuthorID     string       `db:"author_id" json:"author_id"`
	AuthorName   string       `db:"author_name" json:"author_name"`
	Title        string       `db:"title" json:"title"`
	Content      string       `db:"content" json:"content"`
	Category     string       `db:"category" json:"category"`
	LikesCount   int          `db:"likes_count" json:"likes_count"`
	RepliesCount int          `db:"replies_count" json:"replies_count"`
	IsPinned     bool         `db:"is_pinned" json:"is_pinned"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
	Replies      []ForumReply `json:"replies,omitempty"`
}

type ForumReply struct {
	ID         string    `db:"id" json:"id"`
	PostID     string    `db:"post_id" json:"post_id"`
	AuthorID   string    `db:"author_id" json:"author_id"`
	AuthorName string    `db:"author_name" json:"author_name"`
	Content    string    `db:"content" json:"content"`
	LikesCount int       `db:"likes_count" json:"likes_count"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type Event struct {
	ID                  string    `db:"id" json:"id"`
	Title               string    `db:"title" json:"title"`
	Description         string    `db:"description" json:"description"`
	StartDate           time.Time `db:"start_date" json:"start_date"`
	EndDate             time.Time `db:"end_date" json:"end_date"`
	Location            *string   `db:"location" json:"location,omitempty"`
	IsVirtual           bool      `db:"is_virtual" json:"is_virtual"`
	OrganizerID         string    `db:"organizer_id" json:"organizer_id"`
	MaxParticipants     *int      `db:"max_participants" json:"max_participants,omitempty"`
	CurrentParticipants int       `db:"current_participants" json:"current_participants"`
	Category            string    `db:"category" json:"category"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
}
