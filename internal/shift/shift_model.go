package shift

import (
	"gorm.io/gorm"
)

// ShiftEntry is one submitted availability: a person can work the given
// date between Start and End. Entries append per submission; resubmitting a
// month adds rows rather than replacing them.
type ShiftEntry struct {
	gorm.Model
	Name  string `json:"name" gorm:"index;not null"`
	Month string `json:"month" gorm:"index;not null"` // YYYY-MM
	Date  string `json:"date" gorm:"not null"`        // YYYY-MM-DD
	Start string `json:"start" gorm:"not null"`       // HH:MM
	End   string `json:"end" gorm:"not null"`         // HH:MM
}

type SubmitShiftRequest struct {
	// Name defaults to the session name; admins may submit for anyone.
	Name  string   `json:"name" binding:"omitempty,max=100"`
	Dates []string `json:"dates" binding:"required,min=1,dive,datetime=2006-01-02"`
	Start string   `json:"start" binding:"required,datetime=15:04" example:"09:00"`
	End   string   `json:"end" binding:"required,datetime=15:04" example:"18:00"`
}

type SubmitShiftResponse struct {
	Name     string       `json:"name"`
	Accepted int          `json:"accepted"`
	Entries  []ShiftEntry `json:"entries"`
}
