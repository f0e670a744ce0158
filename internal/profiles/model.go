package profiles

import "time"

// Profile holds the contact details a signed-in farmer supplies once.
type Profile struct {
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phoneNumber"`
	City        string    `json:"city"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Complete reports whether every contact field is filled in.
func (p Profile) Complete() bool {
	return p.Name != "" && p.PhoneNumber != "" && p.City != ""
}

// Input is the writable part of a profile.
type Input struct {
	Name        string `json:"name" validate:"min=2,max=100"`
	PhoneNumber string `json:"phoneNumber" validate:"min=10,max=15"`
	City        string `json:"city" validate:"min=2,max=100"`
}
