package helper

import (
	"context"
	"log"
	"time"

	"cinema_booking/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

func InitCloudinary() *cloudinary.Cloudinary {
	name := config.Config("CLOUDINARY_CLOUD_NAME")
	if name == "" {
		return nil
	}
	cld, err := cloudinary.NewFromParams(
		name,
		config.Config("CLOUDINARY_API_KEY"),
		config.Config("CLOUDINARY_API_SECRET"),
	)
	if err != nil {
		log.Printf("cloudinary init failed: %v", err)
		return nil
	}
	return cld
}

// CachePoster uploads a remote poster URL to cloudinary and returns the
// cached secure URL.
func CachePoster(sourceURL, publicId string) (string, error) {
	cld := InitCloudinary()
	if cld == nil {
		return sourceURL, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := cld.Upload.Upload(ctx, sourceURL, uploader.UploadParams{
		PublicID:  "posters/" + publicId,
		Overwrite: api.Bool(true),
	})
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}
