package node

import (
	"context"
	"testing"
	"time"

	"github.com/libp2p/go-libp2p/core/peer"
	bhost "github.com/libp2p/go-libp2p/p2p/host/blank"
	swarmt "github.com/libp2p/go-libp2p/p2p/net/swarm/testing"
	"github.com/stretchr/testify/assert"
)

func TestPeerTracker(t *testing.T) {
	h := bhost.NewBlankHost(swarmt.GenSwarm(t))
	defer h.Close()

	other := bhost.NewBlankHost(swarmt.GenSwarm(t))
	defer other.Close()

	tr := newPeerTracker(h, testLogger())

	tr.HandlePeerFound(peer.AddrInfo{ID: h.ID()})
	assert.Empty(t, tr.Peers())

	tr.HandlePeerFound(peer.AddrInfo{ID: other.ID(), Addrs: other.Addrs()})
	tr.HandlePeerFound(peer.AddrInfo{ID: other.ID(), Addrs: other.Addrs()})
	assert.Equal(t, []peer.ID{other.ID()}, tr.Peers())

	assert.Eventually(t, func() bool {
		return len(h.Network().ConnsToPeer(other.ID())) > 0
	}, 5*time.Second, 50*time.Millisecond)

	tr.remove(other.ID())
	assert.Empty(t, tr.Peers())
}

func TestFindPeersLoop(t *testing.T) {
	h := bhost.NewBlankHost(swarmt.GenSwarm(t))
	defer h.Close()

	tr := newPeerTracker(h, testLogger())
	found := peer.ID("found")

	ctx, cancel := context.WithCancel(context.Background())
	calls := make(chan struct{}, 10)

	go tr.findPeers(ctx, func(ctx context.Context) (<-chan peer.AddrInfo, error) {
		calls <- struct{}{}
		ch := make(chan peer.AddrInfo, 1)
		ch <- peer.AddrInfo{ID: found}
		close(ch)
		return ch, nil
	}, 10*time.Millisecond)

	<-calls
	<-calls
	cancel()

	assert.Contains(t, tr.Peers(), found)
}
