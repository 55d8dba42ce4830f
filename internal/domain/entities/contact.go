package entities

import (
	"sort"
	"time"
)

// ContactMessage is an inquiry left through the public contact form
type ContactMessage struct {
	ID        string    `json:"_id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	QueryType string    `json:"queryType"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// SortContactsNewestFirst orders messages by creation time, most recent first
func SortContactsNewestFirst(messages []ContactMessage) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.After(messages[j].CreatedAt)
	})
}
