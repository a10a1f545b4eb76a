package model

type Theater struct {
	DTO
	Name     string `gorm:"not null" json:"name"`
	Quality  string `gorm:"not null;default:'STANDARD'" json:"quality"` // STANDARD, PREMIUM, IMAX
	Capacity int    `json:"capacity"`
}

type CreateTheaterInput struct {
	Name     string `json:"name" validate:"required"`
	Quality  string `json:"quality" validate:"required,oneof=STANDARD PREMIUM IMAX"`
	Capacity int    `json:"capacity" validate:"omitempty,gt=0"`
}
