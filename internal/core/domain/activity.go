package domain

import "time"

// ActivityAction names a user-visible operation recorded in the activity log.
type ActivityAction string

const (
	ActivityRegister    ActivityAction = "register"
	ActivityLogin       ActivityAction = "login"
	ActivityNoteCreated ActivityAction = "note_created"
	ActivityNoteRenamed ActivityAction = "note_renamed"
	ActivityNoteWritten ActivityAction = "note_written"
)

// Activity is an append-only audit record.
type Activity struct {
	UserID int64
	Action ActivityAction
	NoteID int64 // zero when the action is not about a note
	At     time.Time
}
