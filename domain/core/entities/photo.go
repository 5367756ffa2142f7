package entities

import (
	"strings"
	"time"
	"unicode/utf8"

	"photoshare/domain/config"
	"photoshare/domain/core/valueobjects"
	pkgerrors "photoshare/pkg/errors"
)

// Photo is an uploaded image with its metadata and denormalized like count.
// Fields are exported because photos are serialized into the cache as JSON.
type Photo struct {
	ID           string    `json:"id"`
	CreatorID    string    `json:"creatorId"`
	CreatorName  string    `json:"creatorName"`
	CreatorRole  string    `json:"creatorRole"`
	ImageURL     string    `json:"imageUrl"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	Title        string    `json:"title"`
	Caption      string    `json:"caption"`
	Location     string    `json:"location,omitempty"`
	People       []string  `json:"people,omitempty"`
	Likes        int64     `json:"likes"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Creator identifies who uploads a photo
type Creator struct {
	ID   string
	Name string
	Role valueobjects.Role
}

// PhotoDetails holds the user supplied metadata of a new photo
type PhotoDetails struct {
	Title    string
	Caption  string
	Location string
	People   []string
}

// NewPhoto creates a photo with a fresh ID and zero likes. The image URL is
// attached once the blob has been uploaded.
func NewPhoto(creator Creator, details PhotoDetails, cfg *config.DomainConfig) (*Photo, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	if strings.TrimSpace(creator.ID) == "" {
		return nil, pkgerrors.NewUnauthorizedError("user ID is required")
	}
	if !creator.Role.CanUpload() {
		return nil, pkgerrors.NewForbiddenError("only creators can upload photos")
	}

	title := strings.TrimSpace(details.Title)
	if title == "" {
		return nil, pkgerrors.NewValidationError("title is required")
	}
	if utf8.RuneCountInString(title) > cfg.MaxTitleLength {
		return nil, pkgerrors.NewValidationError("title is too long")
	}

	caption := strings.TrimSpace(details.Caption)
	if utf8.RuneCountInString(caption) > cfg.MaxCaptionLength {
		return nil, pkgerrors.NewValidationError("caption is too long")
	}

	location := strings.TrimSpace(details.Location)
	if utf8.RuneCountInString(location) > cfg.MaxLocationLength {
		return nil, pkgerrors.NewValidationError("location is too long")
	}

	people := cleanPeople(details.People)
	if len(people) > cfg.MaxPeoplePerPhoto {
		return nil, pkgerrors.NewValidationError("too many people tagged")
	}

	return &Photo{
		ID:          valueobjects.NewID(),
		CreatorID:   creator.ID,
		CreatorName: creator.Name,
		CreatorRole: creator.Role.String(),
		Title:       title,
		Caption:     caption,
		Location:    location,
		People:      people,
		Likes:       0,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// AttachImage records where the uploaded image and its thumbnail live
func (p *Photo) AttachImage(imageURL, thumbnailURL string) {
	p.ImageURL = imageURL
	p.ThumbnailURL = thumbnailURL
}

// CanBeDeletedBy reports whether the caller owns the photo or is an admin
func (p *Photo) CanBeDeletedBy(userID string, role valueobjects.Role) bool {
	return role.IsAdmin() || (userID != "" && userID == p.CreatorID)
}

func cleanPeople(people []string) []string {
	if len(people) == 0 {
		return nil
	}
	out := make([]string, 0, len(people))
	seen := make(map[string]struct{}, len(people))
	for _, p := range people {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
