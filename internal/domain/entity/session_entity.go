package entity

import "time"

// Session is the server-side record of a signed-in device. Tokens carry the
// SessionID; a token whose SessionID no longer matches is rejected.
type Session struct {
	UserID    string
	SessionID string
	Email     string
	Name      string
	AvatarURL string
	CreatedAt time.Time
}
