package domain

import "time"

// User models a registered account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	UserName     string    `json:"userName"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity returns the principal a credential issued for u carries.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Role: u.Role}
}
