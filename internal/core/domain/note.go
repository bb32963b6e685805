package domain

import "time"

const (
	DefaultNoteName = "Unnamed"
	DefaultNoteText = "# New note"

	StarterNoteName = "First note"
	StarterNoteText = "This is your **first note**!"
)

// Note is a text document owned by exactly one user.
type Note struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoteName returns name, or DefaultNoteName when name is nil or empty.
func NoteName(name *string) string {
	if name == nil || *name == "" {
		return DefaultNoteName
	}
	return *name
}

// NextUpdate returns the updated_at value a mutation at now should store,
// keeping updated_at strictly increasing even when the clock does not move.
func NextUpdate(prev, now time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Millisecond)
}
