package model

import "time"

// Roles a housemate can hold. The house creator is treated as admin
// regardless of the stored role; see auth.IsHouseAdmin.
const (
	RoleAdmin    = "admin"
	RoleStandard = "standard"
	RoleReadOnly = "read-only"
)

const (
	ContactEmail = "email"
	ContactPhone = "phone"
)

type User struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Surname          string     `json:"surname"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	Bio              string     `json:"bio"`
	Phone            string     `json:"phone"`
	PreferredContact string     `json:"preferred_contact"`
	Avatar           string     `json:"avatar"`
	HouseID          *int64     `json:"house_id"`
	Role             string     `json:"role"`
	Status           string     `json:"status"`
	LastLogin        *time.Time `json:"last_login"`
	ShowContactInfo  bool       `json:"show_contact_info"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
