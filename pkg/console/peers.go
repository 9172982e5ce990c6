package console

import (
	"context"
	"log/slog"

	"github.com/LunovVladyslav/ws-tutorial/pkg/model"
)

// MsgNoPeers is shown in place of the cards when nobody is connected.
const MsgNoPeers = "No active WebSocket peers."

// PeerCard is one rendered connection.
type PeerCard struct {
	ConnID   string
	Label    string
	IP       string
	Platform string
	Status   string
}

// PeerList is what the peers tab shows: cards, or Empty when there are none.
type PeerList struct {
	Cards []PeerCard
	Empty string
}

// PeerCards builds the rendered list. Cards are ordered by connection id.
func PeerCards(peers map[string]model.Peer) PeerList {
	if len(peers) == 0 {
		return PeerList{Empty: MsgNoPeers}
	}
	entries := model.SortedPeers(peers)
	cards := make([]PeerCard, 0, len(entries))
	for _, e := range entries {
		cards = append(cards, PeerCard{
			ConnID:   e.ConnID,
			Label:    e.Peer.Label(),
			IP:       e.Peer.IP,
			Platform: e.Peer.Platform,
			Status:   e.Peer.Status,
		})
	}
	return PeerList{Cards: cards}
}

// PeersView is the read-only list of live connections.
type PeersView struct {
	api    AdminAPI
	render PeersRenderer
}

// NewPeersView creates the peers view.
func NewPeersView(client AdminAPI, render PeersRenderer) *PeersView {
	return &PeersView{api: client, render: render}
}

// Load fetches and renders the peers. Failures are only logged and leave
// the previous cards in place.
func (v *PeersView) Load(ctx context.Context) {
	peers, err := v.api.ListPeers(ctx)
	if err != nil {
		slog.Error("load peers", "err", err)
		return
	}
	v.render.RenderPeers(PeerCards(peers))
}
