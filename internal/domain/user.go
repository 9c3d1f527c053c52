package domain

import (
	"time"
)

type Role string

const (
	RoleAdmin        Role = "平台管理员"
	RoleVenue        Role = "场馆"
	RoleProfessional Role = "兼职人员"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
