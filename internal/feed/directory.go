package feed

import (
	"feed-service/internal/models"
	"feed-service/internal/telegram"
)

// Directory is a per-request snapshot of the user's broadcast channels in
// native dialog order. It also carries the raw-peer-id to stable-id lookup
// that folder resolution needs, built once per snapshot.
//
// Directories are never cached across requests; every operation re-fetches
// the dialog list and rebuilds one.
type Directory struct {
	channels []telegram.Dialog
	byID     map[string]telegram.Dialog
	byPeerID map[int64]string
}

// BuildDirectory keeps broadcast channels (megagroups and plain chats are
// dropped) and indexes them by stable id and by raw peer id.
func BuildDirectory(dialogs []telegram.Dialog) *Directory {
	d := &Directory{
		byID:     make(map[string]telegram.Dialog, len(dialogs)),
		byPeerID: make(map[int64]string, len(dialogs)),
	}
	for _, dlg := range dialogs {
		if !dlg.Broadcast || dlg.Megagroup {
			continue
		}
		id := dlg.StableID()
		d.channels = append(d.channels, dlg)
		d.byID[id] = dlg
		d.byPeerID[dlg.PeerID] = id
	}
	return d
}

// Channels returns the broadcast channels in dialog order.
func (d *Directory) Channels() []telegram.Dialog {
	return d.channels
}

// Find looks up a channel by its stable id.
func (d *Directory) Find(id string) (telegram.Dialog, bool) {
	dlg, ok := d.byID[id]
	return dlg, ok
}

// StableIDForPeer translates a raw channel peer id (the numbering dialog
// filters use) into the stable identifier space.
func (d *Directory) StableIDForPeer(peerID int64) (string, bool) {
	id, ok := d.byPeerID[peerID]
	return id, ok
}

// ChannelModel shapes a directory entry for the API. Photo points at the
// avatar endpoint when the channel has a profile photo.
func ChannelModel(dlg telegram.Dialog) models.Channel {
	ch := models.Channel{
		ID:                dlg.StableID(),
		Title:             dlg.Title,
		Username:          dlg.Username,
		ParticipantsCount: dlg.Participants,
		IsChannel:         dlg.Broadcast,
		IsGroup:           dlg.Megagroup,
	}
	if dlg.PhotoID != 0 {
		ch.Photo = "/api/channels/" + ch.ID + "/photo"
	}
	return ch
}
