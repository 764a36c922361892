package models

import "time"

// MaxReviewLength bounds the text of a review, in characters
const MaxReviewLength = 1000

// Review is free-form feedback left by a user
type Review struct {
	ID        int64     `db:"id"`
	Identity  string    `db:"identity"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
}
