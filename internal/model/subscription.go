package model

import "time"

// PushSubscription is one browser push endpoint registered by a user.
// The endpoint URL is the natural key; p256dh and auth are the opaque
// client secrets required by the Web Push encryption scheme.
type PushSubscription struct {
	Endpoint  string    `json:"endpoint"`
	UserID    string    `json:"user_id"`
	P256dh    string    `json:"p256dh"`
	Auth      string    `json:"auth"`
	CreatedAt time.Time `json:"created_at"`
}
