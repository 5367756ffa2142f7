package handlers

import (
	"photoshare/application/commands"
	"photoshare/application/commands/bus"
)

// Register wires every write use case into the command bus
func Register(b *bus.CommandBus, photos *PhotoHandler, likes *LikeHandler, comments *CommentHandler) error {
	registrations := []struct {
		cmd     bus.Command
		handler bus.CommandHandler
	}{
		{commands.CreatePhotoCommand{}, bus.Typed(photos.CreatePhoto)},
		{commands.DeletePhotoCommand{}, bus.Typed(photos.DeletePhoto)},
		{commands.LikePhotoCommand{}, bus.Typed(likes.LikePhoto)},
		{commands.UnlikePhotoCommand{}, bus.Typed(likes.UnlikePhoto)},
		{commands.CreateCommentCommand{}, bus.Typed(comments.CreateComment)},
		{commands.DeleteCommentCommand{}, bus.Typed(comments.DeleteComment)},
	}
	for _, r := range registrations {
		if err := b.Register(r.cmd, r.handler); err != nil {
			return err
		}
	}
	return nil
}
