// Package fixtures builds entities and payloads shared by tests
package fixtures

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"time"

	"photoshare/domain/core/entities"
	"photoshare/domain/core/valueobjects"
)

// PNG returns an encoded solid-colour image of the given size
func PNG(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Photo returns a stored-looking photo created at the given time
func Photo(id, creatorID string, createdAt time.Time) *entities.Photo {
	return &entities.Photo{
		ID:          id,
		CreatorID:   creatorID,
		CreatorName: "Creator " + creatorID,
		CreatorRole: valueobjects.RoleCreator.String(),
		ImageURL:    "https://blobs.test/photos/" + id + ".png",
		Title:       "Photo " + id,
		Caption:     "caption",
		CreatedAt:   createdAt.UTC(),
	}
}

// Comment returns a stored-looking comment
func Comment(id, photoID, userID string, createdAt time.Time) *entities.Comment {
	return &entities.Comment{
		ID:        id,
		PhotoID:   photoID,
		UserID:    userID,
		UserName:  "User " + userID,
		Content:   "nice shot",
		CreatedAt: createdAt.UTC(),
	}
}
