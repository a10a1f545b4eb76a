package model

type User struct {
	DTO
	Username string `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email    string `gorm:"size:128" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Role     string `gorm:"not null;default:'CUSTOMER'" json:"role"`
	Active   bool   `gorm:"not null;default:true" json:"active"`
}

type RegisterUserInput struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
