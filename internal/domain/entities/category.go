package entities

import "time"

// Category groups products in the catalog
type Category struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon,omitempty"`
	Slug      string    `json:"slug,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}
