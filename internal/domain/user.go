package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleCitizen = "citizen"
	RoleAdmin   = "admin"
)

// User - участник системы
type User struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Email       string    `json:"email" db:"email"`
	Name        string    `json:"name" db:"name"`
	Role        string    `json:"role" db:"role"`
	TotalPoints int       `json:"total_points" db:"total_points"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// IsAdmin сообщает, является ли пользователь администратором
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
