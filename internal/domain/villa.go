package domain

import "time"

// Villa listing statuses. A listing starts pending and is admin-controlled
// thereafter; content edits by the owner drop it back to pending.
const (
	VillaStatusPending  = "pending"
	VillaStatusVerified = "verified"
	VillaStatusRejected = "rejected"
)

// ValidVillaStatus reports whether s is one of the known listing statuses.
func ValidVillaStatus(s string) bool {
	switch s {
	case VillaStatusPending, VillaStatusVerified, VillaStatusRejected:
		return true
	}
	return false
}

type Villa struct {
	VillaID             string    `json:"id" db:"villa_id"`
	OwnerID             string    `json:"owner_id" db:"owner_id"`
	Name                string    `json:"name" db:"name"`
	Location            string    `json:"location" db:"location"`
	Description         string    `json:"description" db:"description"`
	GuestCapacity       int       `json:"guest_capacity" db:"guest_capacity"`
	PricePerNight       float64   `json:"price_per_night" db:"price_per_night"`
	Size                string    `json:"size" db:"size"`
	BedType             string    `json:"bed_type" db:"bed_type"`
	MainImageURL        string    `json:"main_image_url" db:"main_image_url"`
	AdditionalImageURLs []string  `json:"additional_image_urls" db:"-"`
	Features            []string  `json:"features" db:"-"`
	Status              string    `json:"status" db:"status"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// SubmitVillaRequest is the form portion of a listing submission; the
// image URLs are filled in by the transport layer after the blobs are stored.
type SubmitVillaRequest struct {
	Name                string   `validate:"required"`
	Location            string   `validate:"required"`
	Description         string   `validate:"required"`
	GuestCapacity       int      `validate:"required,gt=0"`
	PricePerNight       float64  `validate:"required,gt=0"`
	Size                string
	BedType             string
	Features            []string
	MainImageURL        string   `validate:"required"`
	AdditionalImageURLs []string
}

// UpdateVillaRequest carries partial-update semantics: nil fields keep
// their current value. New additional images are appended, never replaced.
type UpdateVillaRequest struct {
	Name                *string
	Location            *string
	Description         *string
	GuestCapacity       *int     `validate:"omitempty,gt=0"`
	PricePerNight       *float64 `validate:"omitempty,gt=0"`
	Size                *string
	BedType             *string
	Features            []string
	MainImageURL        *string
	NewAdditionalImages []string
}
