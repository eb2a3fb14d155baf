package domain

import "time"

// User is keyed by email in the users table; UserID is a ULID exposed through the user_id-index GSI.
type User struct {
	Email        string    `json:"email" dynamodbav:"email"`
	UserID       string    `json:"id" dynamodbav:"user_id"`
	DisplayName  string    `json:"name" dynamodbav:"display_name"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}
