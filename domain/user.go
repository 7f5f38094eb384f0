// Package domain contains core concepts of the messaging system.
// This file defines User entities and the identity derived from a session.
// No storage, network, or UI logic should be added here.
package domain

import "time"

// User is the public shape of an account. The password hash never leaves
// the repository layer.
type User struct {
	Username  string
	Email     string
	CreatedAt time.Time
}

// Identity is the caller identity derived from a verified session token.
// A nil *Identity means the request is unauthenticated.
type Identity struct {
	Username string
	Email    string
}
