package entities

import "time"

// BlogPost is a published article with a cover image and author photo
type BlogPost struct {
	ID          string        `json:"_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	SenderName  string        `json:"senderName"`
	ImageURL    AttachmentRef `json:"imageUrl,omitempty"`
	SenderPhoto AttachmentRef `json:"senderPhoto,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}
