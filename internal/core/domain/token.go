package domain

import (
	"errors"
	"strconv"
	"strings"
)

var errMalformedToken = errors.New("malformed token")

// Token is the compound credential "<userID>.<sessionID>.<key>" handed to
// clients after register or login.
type Token struct {
	UserID    int64
	SessionID int64
	Key       string
}

// NewToken builds the credential for a freshly issued session.
func NewToken(s *Session) Token {
	return Token{UserID: s.UserID, SessionID: s.ID, Key: s.Key}
}

func (t Token) String() string {
	return strconv.FormatInt(t.UserID, 10) + "." + strconv.FormatInt(t.SessionID, 10) + "." + t.Key
}

// ParseToken splits a credential into its parts. Every failure yields the
// same error so callers cannot tell which part was wrong.
func ParseToken(raw string) (Token, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 || parts[2] == "" {
		return Token{}, errMalformedToken
	}

	userID, err := parseID(parts[0])
	if err != nil {
		return Token{}, errMalformedToken
	}
	sessionID, err := parseID(parts[1])
	if err != nil {
		return Token{}, errMalformedToken
	}

	return Token{UserID: userID, SessionID: sessionID, Key: parts[2]}, nil
}

func parseID(s string) (int64, error) {
	// ParseInt accepts a leading sign; ids are plain digits.
	if s == "" || s[0] < '0' || s[0] > '9' {
		return 0, errMalformedToken
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errMalformedToken
	}
	return id, nil
}
