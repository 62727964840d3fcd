package notes

import (
	"time"
)

// DateLayout is the calendar-day format used in note URLs and JSON.
const DateLayout = "2006-01-02"

// MaxContentLength caps a single daily note.
const MaxContentLength = 4000

// Note is a free text remark attached to one calendar day.
type Note struct {
	Date      string    `json:"date"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ParseDate accepts a YYYY-MM-DD calendar day. The result is midnight UTC of that day.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
