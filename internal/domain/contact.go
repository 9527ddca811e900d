package domain

import "time"

// Contact is a contact-form submission, persisted before the notification
// mail goes out.
type Contact struct {
	ContactID string    `json:"id" db:"contact_id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Email     string    `json:"email" db:"email"`
	Persons   int       `json:"persons" db:"persons"`
	VisitDate string    `json:"visit_date" db:"visit_date"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type ContactRequest struct {
	FullName  string `json:"full_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Persons   int    `json:"persons"`
	VisitDate string `json:"visit_date"`
	Message   string `json:"message" validate:"required"`
}
