package feed

import (
	"feed-service/internal/models"
	"feed-service/internal/telegram"
)

// ResolveFolders translates raw dialog filters into folders over the stable
// channel id space. Members that do not resolve to a broadcast channel in
// the directory are pruned silently; folders left with no members are
// dropped entirely.
func ResolveFolders(filters []telegram.Filter, dir *Directory) []models.Folder {
	out := make([]models.Folder, 0, len(filters))
	for _, f := range filters {
		ids := make([]string, 0, len(f.ChannelPeerIDs))
		for _, peerID := range f.ChannelPeerIDs {
			if id, ok := dir.StableIDForPeer(peerID); ok {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			continue
		}
		out = append(out, models.Folder{
			ID:         f.ID,
			Title:      f.Title,
			Emoticon:   f.Emoticon,
			ChannelIDs: ids,
		})
	}
	return out
}
