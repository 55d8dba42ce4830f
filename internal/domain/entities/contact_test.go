package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func timeNow() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

func TestSortContactsNewestFirst(t *testing.T) {
	now := timeNow()
	messages := []ContactMessage{
		{ID: "old", CreatedAt: now.Add(-48 * time.Hour)},
		{ID: "new", CreatedAt: now},
		{ID: "mid", CreatedAt: now.Add(-time.Hour)},
	}

	SortContactsNewestFirst(messages)

	assert.Equal(t, "new", messages[0].ID)
	assert.Equal(t, "mid", messages[1].ID)
	assert.Equal(t, "old", messages[2].ID)
}
