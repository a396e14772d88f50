// Package domain contains core domain types shared by the demo apps.
package domain

import "time"

// SessionKey identifies one browser tab's session state.
type SessionKey struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

// String renders the key as "user:session".
func (k SessionKey) String() string {
	return k.UserID + ":" + k.SessionID
}

// SessionInfo describes a stored session for expiry sweeps.
type SessionInfo struct {
	Key       SessionKey
	UpdatedAt time.Time
}
