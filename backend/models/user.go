package models

import "gorm.io/gorm"

const (
	RoleAdmin   = "admin"
	RoleStudent = "aluno"
)

type User struct {
	gorm.Model
	Name         string `json:"name" gorm:"not null"`
	Email        string `json:"email" gorm:"unique;not null"`
	PasswordHash string `json:"-" gorm:"not null"`
	Role         string `json:"role" gorm:"default:aluno"` // admin, aluno
	Phone        string `json:"phone"`
	Avatar       string `json:"avatar"`
	IsActive     bool   `json:"isActive" gorm:"default:true"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// All lists every model migrated by the application.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Course{},
		&Module{},
		&Lesson{},
		&CourseProgress{},
		&QuizAttempt{},
	}
}
