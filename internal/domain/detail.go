package domain

import "time"

type Detail struct {
	DetailID    string    `json:"id" dynamodbav:"detail_id"`
	Title       string    `json:"title" dynamodbav:"title"`
	Description string    `json:"description" dynamodbav:"description"`
	CreatedAt   time.Time `json:"createdAt" dynamodbav:"created_at"`
}

type DetailInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}
