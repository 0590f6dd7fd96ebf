package domain

import "time"

type Role string

const (
	RoleBuyer Role = "buyer"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool { return r == RoleBuyer || r == RoleAdmin }

type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullname"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phonenumber"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) IsBuyer() bool { return u != nil && u.Role == RoleBuyer }
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// BuyerSummary is the part of a user joined into admin order listings.
type BuyerSummary struct {
	ID       string `json:"id"`
	FullName string `json:"fullname"`
	Email    string `json:"email"`
}
