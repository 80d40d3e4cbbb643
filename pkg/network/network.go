//go:generate go run github.com/vektra/mockery/v2 --name Network

package network

import (
	"context"
	"sort"

	"github.com/libp2p/go-libp2p/core/peer"
)

const (
	// ChainTopic carries chain requests and full chain responses
	ChainTopic = "chains"
	// BlockTopic carries newly mined blocks
	BlockTopic = "blocks"
)

// Message is a payload delivered on a topic
type Message struct {
	Topic string
	Data  []byte
	From  peer.ID
}

// Network is the publish/subscribe substrate the node gossips over.
type Network interface {
	ID() peer.ID
	Peers() []peer.ID
	Subscribe(ctx context.Context, topic string) (<-chan *Message, error)
	Publish(ctx context.Context, topic string, data []byte) error
}

// PeerSource lists peers found by discovery
type PeerSource interface {
	Peers() []peer.ID
}

// SortedPeers returns a sorted copy of ids without self or duplicates.
func SortedPeers(self peer.ID, ids []peer.ID) []peer.ID {
	seen := make(map[peer.ID]struct{}, len(ids))
	out := make([]peer.ID, 0, len(ids))

	for _, id := range ids {
		if id == self {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	sort.Sort(peer.IDSlice(out))

	return out
}
