package models

import "github.com/google/uuid"

// TokenPayload is verified session data
type TokenPayload struct {
	UserID uuid.UUID
}
