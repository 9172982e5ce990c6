package model

import "sort"

// AnonymousPeer is shown for connections that never identified themselves.
const AnonymousPeer = "Anonymous"

// Peer describes a live signalling connection. Only the id is guaranteed.
type Peer struct {
	ID           string `json:"id" yaml:"id"`
	Username     string `json:"username,omitempty" yaml:"username,omitempty"`
	IP           string `json:"ip,omitempty" yaml:"ip,omitempty"`
	Platform     string `json:"platform,omitempty" yaml:"platform,omitempty"`
	DisplayName  string `json:"displayName,omitempty" yaml:"display_name,omitempty"`
	Online       bool   `json:"online,omitempty" yaml:"online,omitempty"`
	Status       string `json:"status,omitempty" yaml:"status,omitempty"`
	AvatarBase64 string `json:"avatarBase64,omitempty" yaml:"-"`
}

// Label returns the username, or AnonymousPeer when the peer has none.
func (p Peer) Label() string {
	if p.Username == "" {
		return AnonymousPeer
	}
	return p.Username
}

// PeerEntry pairs a connection id with its descriptor.
type PeerEntry struct {
	ConnID string
	Peer   Peer
}

// SortedPeers flattens the connection map into entries ordered by id.
// The server gives no ordering; sorting only keeps redraws stable.
func SortedPeers(peers map[string]Peer) []PeerEntry {
	out := make([]PeerEntry, 0, len(peers))
	for id, p := range peers {
		out = append(out, PeerEntry{ConnID: id, Peer: p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ConnID < out[j].ConnID })
	return out
}
