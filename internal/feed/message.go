package feed

import (
	"feed-service/internal/models"
	"feed-service/internal/telegram"
)

// buildMessage stamps directory channel metadata onto a normalized post and
// derives its media handle.
func buildMessage(msg telegram.Message, ch telegram.Dialog) models.Message {
	out := models.Message{
		ID:              msg.ID,
		ChannelID:       ch.StableID(),
		ChannelTitle:    ch.Title,
		ChannelUsername: ch.Username,
		Text:            msg.Text,
		Date:            msg.Date,
		Views:           msg.Views,
		Forwards:        msg.Forwards,
		Replies:         msg.Replies,
		HasMedia:        msg.Media != telegram.MediaNone,
		MediaType:       models.MediaKind(msg.Media),
		Entities:        make([]models.Entity, 0, len(msg.Entities)),
	}
	if out.HasMedia {
		out.MediaID = MediaHandle(out.ChannelID, msg.ID)
	}
	for _, e := range msg.Entities {
		out.Entities = append(out.Entities, models.Entity{
			Type:   e.Type,
			Offset: e.Offset,
			Length: e.Length,
			URL:    e.URL,
		})
	}
	return out
}
