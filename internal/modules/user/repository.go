package user

import "context"

// Repository defines the interface for user data storage.
//
// Implementations return apperr not-found errors for unknown ids or emails and
// apperr conflict errors when an email is already taken. Emails are stored
// and looked up lowercased.
type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context, f Filter) ([]*User, error)
	UpdateUser(ctx context.Context, user *User) error
	DeleteUser(ctx context.Context, id string) error
}
