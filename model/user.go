package model

import "time"

type Role string

const (
	RoleAdmin          Role = "admin"
	RoleDepartmentHead Role = "department_head"
	RoleTeamMember     Role = "team_member"
)

// ValidRole reports whether r is one of the three known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleDepartmentHead, RoleTeamMember:
		return true
	}
	return false
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:120;not null;uniqueIndex" json:"email"`
	Username     string    `gorm:"size:80;not null;uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	FullName     string    `gorm:"size:200;not null" json:"full_name"`
	Role         Role      `gorm:"size:50;not null" json:"role"`
	DepartmentID *uint     `json:"department_id"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}
