package usecase

import (
	"github.com/google/uuid"

	"skillproof/internal/domain/user"
)

// Caller is the authorized identity the session middleware resolved. Every
// scoped query takes its identity from here, never from client input.
type Caller struct {
	ID   uuid.UUID
	Role user.Role
}

func (c Caller) IsEmployer() bool {
	return c.Role == user.RoleEmployer
}
