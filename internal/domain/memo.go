package domain

import "time"

// Memo is one stored note.
type Memo struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Suggestion is one search-suggestion row from an upstream suggest API.
type Suggestion struct {
	Value string `json:"value"`
}
