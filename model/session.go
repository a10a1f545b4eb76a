package model

import "time"

type Session struct {
	DTO
	MovieId   uint      `gorm:"not null" json:"movieId"`
	TheaterId uint      `gorm:"not null" json:"theaterId"`
	StartTime time.Time `gorm:"not null" json:"startTime"`
	UnitPrice float64   `json:"unitPrice"`

	Movie   Movie   `gorm:"foreignKey:MovieId" json:"-"`
	Theater Theater `gorm:"foreignKey:TheaterId" json:"-"`
}

type CreateSessionInput struct {
	MovieId   uint      `json:"movieId" validate:"required,gt=0"`
	TheaterId uint      `json:"theaterId" validate:"required,gt=0"`
	StartTime time.Time `json:"startTime" validate:"required"`
}
