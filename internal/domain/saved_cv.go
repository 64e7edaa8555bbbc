package domain

import (
	"time"

	"cv-forge/internal/model"

	"github.com/google/uuid"
)

// SavedCV is one entry of a user's CV history.
type SavedCV struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Date time.Time `json:"date"`
	Data model.CV  `json:"data"`
}
