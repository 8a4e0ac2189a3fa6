// Package user provides the User domain entity.
package user

// User represents an authenticated account on the backend.
type User struct {
	ID       int64  // Backend user id
	Username string // Display/login name
	Email    string // Contact address
}
