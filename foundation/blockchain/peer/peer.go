// Package peer maintains the set of known peers in the network.
package peer

import (
	"sync"
)

// Peer represents information about a node in the network.
type Peer struct {
	Host string
}

// New constructs a peer value for the specified host.
func New(host string) Peer {
	return Peer{Host: host}
}

// =============================================================================

// PeerSet represents the data representation to maintain a set of known
// peers.
type PeerSet struct {
	mu  sync.RWMutex
	set map[Peer]struct{}
}

// NewPeerSet constructs a new peer set for tracking known peers.
func NewPeerSet() *PeerSet {
	return &PeerSet{
		set: make(map[Peer]struct{}),
	}
}

// Add includes a new peer in the set.
func (ps *PeerSet) Add(peer Peer) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ps.set[peer] = struct{}{}
}

// Remove deletes a peer from the set.
func (ps *PeerSet) Remove(peer Peer) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	delete(ps.set, peer)
}

// Copy returns a list of the known peers, excluding the specified host.
func (ps *PeerSet) Copy(host string) []Peer {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	peers := make([]Peer, 0, len(ps.set))
	for peer := range ps.set {
		if peer.Host != host {
			peers = append(peers, peer)
		}
	}
	return peers
}
