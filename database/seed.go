package database

import (
	"cinema_booking/constants"
	"cinema_booking/model"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func SeedData(db *gorm.DB) {
	bytes, err := bcrypt.GenerateFromPassword([]byte("changeme"), 10)
	hashPassword := string(bytes)
	if err != nil {
		log.Println("failed to hash seed password:", err)
		return
	}

	users := []model.User{
		{Username: "administration", Password: hashPassword, Active: true, Role: constants.ROLE_ADMIN},
		{Username: "gate-scanner", Password: hashPassword, Active: true, Role: constants.ROLE_GATE},
	}
	for _, user := range users {
		if err := db.Where(model.User{Username: user.Username}).FirstOrCreate(&user).Error; err != nil {
			log.Println("failed to seed user:", user.Username, "error:", err)
		}
	}

	theaters := []model.Theater{
		{Name: "Hall 1", Quality: "STANDARD", Capacity: 120},
		{Name: "Hall 2", Quality: "PREMIUM", Capacity: 80},
		{Name: "Hall IMAX", Quality: "IMAX", Capacity: 200},
	}
	for _, theater := range theaters {
		if err := db.Where(model.Theater{Name: theater.Name}).FirstOrCreate(&theater).Error; err != nil {
			log.Println("failed to seed theater:", theater.Name, "error:", err)
		}
	}

	var count int64
	db.Model(&model.Session{}).Count(&count)
	if count == 0 {
		movie := model.Movie{Title: "Opening Night", Slug: "opening-night"}
		if err := db.Where(model.Movie{Slug: movie.Slug}).FirstOrCreate(&movie).Error; err != nil {
			log.Println("failed to seed movie:", err)
			return
		}
		var theater model.Theater
		if err := db.First(&theater).Error; err != nil {
			return
		}
		session := model.Session{
			MovieId:   movie.ID,
			TheaterId: theater.ID,
			StartTime: time.Now().Add(48 * time.Hour),
			UnitPrice: 9.5,
		}
		if err := db.Create(&session).Error; err != nil {
			log.Println("failed to seed session:", err)
		}
	}
}
