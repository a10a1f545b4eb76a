package helper

import (
	"cinema_booking/config"
	"cinema_booking/database"
	"cinema_booking/model"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/gosimple/slug"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

var catalogScheduler gocron.Scheduler

type catalogFeed struct {
	Movies []model.CatalogMovie `json:"movies"`
}

// SyncCatalog pulls the external movie feed and upserts it into the local
// catalog. Posters are cached to cloudinary when configured.
func SyncCatalog(db *gorm.DB) error {
	feedURL := config.Config("CATALOG_FEED_URL")
	if feedURL == "" {
		return errors.New("CATALOG_FEED_URL not configured")
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(feedURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog feed returned %d", resp.StatusCode)
	}

	var feed catalogFeed
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return err
	}

	synced := 0
	for _, entry := range feed.Movies {
		if entry.ExternalId == "" || entry.Title == "" {
			continue
		}
		if err := upsertCatalogMovie(db, entry); err != nil {
			log.Printf("failed to upsert movie %q: %v", entry.Title, err)
			continue
		}
		synced++
	}

	log.Printf("catalog sync finished, %d/%d movies", synced, len(feed.Movies))
	return nil
}

func upsertCatalogMovie(db *gorm.DB, entry model.CatalogMovie) error {
	var movie model.Movie
	err := db.Where(model.Movie{ExternalId: entry.ExternalId}).First(&movie).Error
	isNew := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !isNew {
		return err
	}

	if err := copier.Copy(&movie, &entry); err != nil {
		return err
	}

	if isNew {
		movie.Slug = GenerateUniqueMovieSlug(db, entry.Title)
	}

	if entry.PosterURL != "" {
		if cached, err := CachePoster(entry.PosterURL, movie.Slug); err == nil {
			movie.PosterURL = cached
		} else {
			log.Printf("poster cache failed for %q: %v", entry.Title, err)
		}
	}

	if isNew {
		return db.Create(&movie).Error
	}
	return db.Save(&movie).Error
}

func GenerateUniqueMovieSlug(tx *gorm.DB, title string) string {
	base := slug.Make(title)
	result := base
	i := 1

	for {
		var count int64
		tx.Model(&model.Movie{}).
			Where("slug = ?", result).
			Count(&count)

		if count == 0 {
			break
		}
		result = fmt.Sprintf("%s-%d", base, i)
		i++
	}

	return result
}

func StartCatalogScheduler() {
	s, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal(err)
	}

	catalogScheduler = s

	_, err = s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(3, 30, 0),
			),
		),
		gocron.NewTask(func() {
			if err := SyncCatalog(database.DB); err != nil {
				log.Printf("catalog sync failed: %v", err)
			}
		}),
	)
	if err != nil {
		log.Fatal(err)
	}

	s.Start()
	log.Println("catalog scheduler started (daily 03:30)")
}

func StopCatalogScheduler() {
	if catalogScheduler != nil {
		if err := catalogScheduler.Shutdown(); err != nil {
			log.Printf("catalog scheduler shutdown: %v", err)
		}
	}
}
