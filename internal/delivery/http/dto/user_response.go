package dto

import (
	"time"

	"github.com/google/uuid"

	"skillproof/internal/domain/user"
)

type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Name     string    `json:"name,omitempty"`
	Image    string    `json:"image,omitempty"`
	Role     user.Role `json:"role"`
	Company  string    `json:"company,omitempty"`
	Position string    `json:"position,omitempty"`
	Bio      string    `json:"bio,omitempty"`
	JoinedAt time.Time `json:"joinedAt"`
}

func UserFrom(u user.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Name:     u.Name,
		Image:    u.Image,
		Role:     u.Role,
		Company:  u.Company,
		Position: u.Position,
		Bio:      u.Bio,
		JoinedAt: u.CreatedAt,
	}
}
