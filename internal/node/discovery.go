package node

import (
	"context"
	"sync"
	"time"

	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/minichain/pkg/network"
)

const (
	connectTimeout = 10 * time.Second
)

var (
	_ network.PeerSource = (*peerTracker)(nil)
)

// peerTracker records peers found through mDNS, the DHT or direct
// connections, and dials newly discovered ones.
type peerTracker struct {
	host   host.Host
	logger *logrus.Entry

	mu    sync.RWMutex
	peers map[peer.ID]struct{}
}

func newPeerTracker(h host.Host, l *logrus.Entry) *peerTracker {
	return &peerTracker{
		host:   h,
		logger: l,
		peers:  make(map[peer.ID]struct{}),
	}
}

// HandlePeerFound is called by mDNS and the DHT discovery loop
func (t *peerTracker) HandlePeerFound(pi peer.AddrInfo) {
	if pi.ID == t.host.ID() {
		return
	}

	if !t.add(pi.ID) {
		return
	}

	t.logger.WithField("peer", pi.ID).Info("discovered new peer")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		if err := t.host.Connect(ctx, pi); err != nil {
			t.logger.WithError(err).WithField("peer", pi.ID).Debug("connecting to discovered peer")
		}
	}()
}

func (t *peerTracker) add(id peer.ID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.peers[id]; ok {
		return false
	}
	t.peers[id] = struct{}{}

	return true
}

func (t *peerTracker) remove(id peer.ID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.peers, id)
}

func (t *peerTracker) Peers() []peer.ID {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]peer.ID, 0, len(t.peers))
	for id := range t.peers {
		ids = append(ids, id)
	}

	return network.SortedPeers(t.host.ID(), ids)
}

// findPeers feeds routing discovery results into the tracker until ctx is
// done.
func (t *peerTracker) findPeers(ctx context.Context, find func(context.Context) (<-chan peer.AddrInfo, error), every time.Duration) {
	for {
		ch, err := find(ctx)
		if err != nil {
			t.logger.WithError(err).Debug("finding peers")
		} else {
			for pi := range ch {
				t.HandlePeerFound(pi)
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(every):
		}
	}
}
