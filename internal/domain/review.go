package domain

import "time"

type Review struct {
	ReviewID  string    `json:"id" db:"review_id"`
	VillaID   string    `json:"villa_id" db:"villa_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CreateReviewRequest struct {
	VillaID string `json:"villa_id" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// ReviewSummary is the aggregate returned alongside a villa's review list.
type ReviewSummary struct {
	AverageRating float64 `json:"average_rating" db:"average_rating"`
	Count         int     `json:"count" db:"count"`
}
