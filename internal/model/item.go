package model

import "strings"

// Item is the domain model for a shopping-list entry.
type Item struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Valid reports whether the item may be persisted: it needs an id and
// non-blank text.
func (it Item) Valid() bool {
	return it.ID != "" && strings.TrimSpace(it.Text) != ""
}
