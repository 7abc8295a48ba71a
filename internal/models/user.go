package models

// User represents a registered account. Users are looked up by phone number
// when a group is created, so Phone is unique.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name of the user.
	Name string

	// Phone is the user's phone number (unique). Group creation resolves
	// participant phone numbers against this field.
	Phone string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}
