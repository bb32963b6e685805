package domain

// Session is a bearer secret issued on every register or login.
// Sessions never expire and a user may hold any number of them.
type Session struct {
	ID     int64
	UserID int64
	Key    string
}
