package model

import "time"

type Movie struct {
	DTO
	ExternalId  string     `gorm:"uniqueIndex;size:40" json:"externalId"`
	Title       string     `gorm:"not null" json:"title"`
	Slug        string     `gorm:"uniqueIndex;size:160" json:"slug"`
	Overview    string     `gorm:"type:text" json:"overview"`
	PosterURL   string     `json:"posterUrl"`
	ReleaseDate *time.Time `json:"releaseDate,omitempty"`
	Runtime     int        `json:"runtime"`
}

// CatalogMovie is the shape of one entry in the external catalog feed.
type CatalogMovie struct {
	ExternalId  string     `json:"id"`
	Title       string     `json:"title"`
	Overview    string     `json:"overview"`
	PosterURL   string     `json:"posterUrl"`
	ReleaseDate *time.Time `json:"releaseDate"`
	Runtime     int        `json:"runtime"`
}
