package handlers

import (
	"photoshare/application/queries"
	"photoshare/application/queries/bus"
)

// Register wires every read use case into the query bus
func Register(b *bus.QueryBus, photos *PhotoQueryHandler, social *SocialQueryHandler) error {
	registrations := []struct {
		query   bus.Query
		handler bus.QueryHandler
	}{
		{queries.ListPhotosQuery{}, bus.Typed(photos.ListPhotos)},
		{queries.GetPhotoQuery{}, bus.Typed(photos.GetPhoto)},
		{queries.GetPhotoLikesQuery{}, bus.Typed(photos.GetPhotoLikes)},
		{queries.GetLikesQuery{}, bus.Typed(social.GetLikes)},
		{queries.ListCommentsQuery{}, bus.Typed(social.ListComments)},
	}
	for _, r := range registrations {
		if err := b.Register(r.query, r.handler); err != nil {
			return err
		}
	}
	return nil
}
