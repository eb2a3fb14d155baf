package domain

import "time"

// Purpose discriminates the flow a pending code belongs to.
type Purpose string

const (
	PurposeSignup Purpose = "signup"
	PurposeReset  Purpose = "reset"
)

// PendingCode is a one-time code awaiting verification.
// PK: identity (email), SK: purpose. At most one live entry per key.
type PendingCode struct {
	Identity  string         `json:"identity" dynamodbav:"identity"`
	Purpose   Purpose        `json:"purpose" dynamodbav:"purpose"`
	Code      string         `json:"code" dynamodbav:"code"`
	ExpiresAt time.Time      `json:"expires_at" dynamodbav:"expires_at"`
	Payload   *SignupPayload `json:"payload,omitempty" dynamodbav:"payload,omitempty"`
}

// SignupPayload is the user data staged until the signup code is verified.
// The password is hashed before staging; no store holds a raw password.
type SignupPayload struct {
	DisplayName  string `json:"display_name" dynamodbav:"display_name"`
	PasswordHash string `json:"password_hash" dynamodbav:"password_hash"`
}

// Expired reports whether the code is past its expiry at now.
func (p *PendingCode) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// Clone returns a deep copy so stores never share mutable state with callers.
func (p *PendingCode) Clone() *PendingCode {
	if p == nil {
		return nil
	}
	c := *p
	if p.Payload != nil {
		payload := *p.Payload
		c.Payload = &payload
	}
	return &c
}
