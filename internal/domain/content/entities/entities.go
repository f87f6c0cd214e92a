package entities

import "time"

// Key is one of the four canonical content taxonomy labels
type Key string

const (
	KeyStory       Key = "Story"
	KeyPost        Key = "Post"
	KeyMessage     Key = "Message"
	KeyMassMessage Key = "MassMessage"
)

// Kinded is implemented by every content variant the taxonomy recognises.
// New variants join the taxonomy by implementing it; the classifier never changes.
type Kinded interface {
	ContentKind() Key
}

// Story is an ephemeral item published by a creator
type Story struct {
	ID        int64
	AuthorID  int64
	MediaIDs  []int64
	CreatedAt time.Time
}

func (Story) ContentKind() Key { return KeyStory }

// Post is a timeline entry
type Post struct {
	ID        int64
	AuthorID  int64
	Text      string
	Price     float64
	MediaIDs  []int64
	CreatedAt time.Time
}

func (Post) ContentKind() Key { return KeyPost }

// Message is a direct chat message between two accounts
type Message struct {
	ID         int64
	FromUserID int64
	Text       string
	Price      float64
	MediaIDs   []int64
	CreatedAt  time.Time
}

func (Message) ContentKind() Key { return KeyMessage }

// MassMessage is a message queued by a creator for many subscribers at once
type MassMessage struct {
	ID          int64
	Text        string
	SentCount   int
	ViewedCount int
	MediaIDs    []int64
	CreatedAt   time.Time
}

func (MassMessage) ContentKind() Key { return KeyMassMessage }
