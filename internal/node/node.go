package node

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/jpillora/backoff"
	"github.com/libp2p/go-libp2p/core/event"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/multiformats/go-multiaddr"
	madns "github.com/multiformats/go-multiaddr-dns"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/minichain/internal/config"
	"github.com/tcfw/minichain/internal/utils/logging"
	"github.com/tcfw/minichain/pkg/chain"
	"github.com/tcfw/minichain/pkg/consensus"
	chainnet "github.com/tcfw/minichain/pkg/network"
)

const (
	bootstrapAttempts = 5
)

type Node struct {
	cfg *config.Config
	p2p *p2pHost
	net *chainnet.PubSub

	dispatcher *consensus.Dispatcher

	out    io.Writer
	logger *logrus.Entry
}

func NewNode(ctx context.Context, opts ...NodeOption) (*Node, error) {
	n := &Node{
		out:    os.Stdout,
		logger: logging.Component("node"),
	}

	for _, opt := range opts {
		if err := opt(n); err != nil {
			return nil, err
		}
	}

	if n.cfg == nil {
		cfg, err := config.GetConfig()
		if err != nil {
			return nil, err
		}
		n.cfg = cfg
	}

	var err error
	n.p2p, err = newP2PHost(ctx, n.cfg.P2P(), n.logger)
	if err != nil {
		return nil, err
	}

	go n.watchEvents()

	n.net = chainnet.NewPubSub(n.p2p.host.ID(), n.p2p.pubsub, n.p2p.peers, n.logger.WithField("component", "pubsub"))

	cc := n.cfg.Chain()
	n.dispatcher, err = consensus.New(n.net,
		consensus.WithDifficulty(cc.Difficulty,
			chain.WithProgressInterval(cc.ProgressInterval),
			chain.WithMinerLogger(n.logger.WithField("component", "miner")),
		),
		consensus.WithGenesis(cc.Genesis.Block),
		consensus.WithLogger(n.logger.WithField("component", "consensus")),
		consensus.WithOutput(n.out),
	)
	if err != nil {
		n.p2p.Close()
		return nil, errors.Wrap(err, "creating dispatcher")
	}

	if err := n.bootstrap(ctx); err != nil {
		n.p2p.Close()
		return nil, errors.Wrap(err, "bootstrapping p2p")
	}

	return n, nil
}

func (n *Node) ID() peer.ID {
	return n.p2p.host.ID()
}

func (n *Node) Addrs() []multiaddr.Multiaddr {
	return n.p2p.host.Addrs()
}

func (n *Node) watchEvents() {
	sub, err := n.p2p.host.EventBus().Subscribe([]interface{}{
		new(event.EvtLocalAddressesUpdated),
		new(event.EvtPeerConnectednessChanged),
	})
	if err != nil {
		n.logger.WithError(err).Error("subscribing to p2p events")
		return
	}

	defer sub.Close()
	for e := range sub.Out() {
		switch evt := e.(type) {
		case event.EvtLocalAddressesUpdated:
			for _, addr := range evt.Current {
				if addr.Action != event.Maintained {
					actionStr := "added"
					if addr.Action == event.Removed {
						actionStr = "removed"
					}
					n.logger.WithField("addr", addr.Address.String()).WithField("action", actionStr).Info("updated reachability")
				}
			}
		case event.EvtPeerConnectednessChanged:
			switch evt.Connectedness {
			case network.Connected:
				n.p2p.peers.add(evt.Peer)
			case network.NotConnected:
				n.p2p.peers.remove(evt.Peer)
			}
			n.logger.WithField("peer", evt.Peer).WithField("state", evt.Connectedness).Debug("peer connectedness changed")
		default:
			n.logger.WithField("event", e).Debugf("unknown event %T", e)
		}
	}
}

// ListenAndServe runs the node's event loop over the given console lines
// until ctx is done.
func (n *Node) ListenAndServe(ctx context.Context, lines <-chan string) error {
	n.logger.WithField("addrs", n.p2p.host.Addrs()).WithField("id", n.p2p.host.ID().String()).Info("Starting listening")

	return consensus.NewRuntime(n.dispatcher, n.cfg.Chain().InitDelay).Run(ctx, lines)
}

func (n *Node) Stop() error {
	n.logger.Warn("Shutting down")

	return n.p2p.Close()
}

func (n *Node) bootstrap(ctx context.Context) error {
	n.logger.Debugf("bootstrapping P2P host")

	peers, err := resolveBootstrapPeers(ctx, n.cfg.P2P().BootstrapPeers)
	if err != nil {
		return err
	}

	if len(peers) == 0 {
		n.logger.Debug("no bootstrapping peers")
		return nil
	}

	var wg sync.WaitGroup

	for _, pi := range peers {
		wg.Add(1)
		go func(pi peer.AddrInfo) {
			defer wg.Done()

			if err := n.connectWithBackoff(ctx, pi); err != nil {
				n.logger.WithField("peer", pi.String()).WithError(err).Warning("failed to connect to bootstrap peer")
				return
			}

			n.p2p.peers.add(pi.ID)
			n.logger.WithField("peer", pi.ID).Debug("connection established with bootstrap peer")
		}(pi)
	}
	wg.Wait()

	return nil
}

func (n *Node) connectWithBackoff(ctx context.Context, pi peer.AddrInfo) error {
	b := &backoff.Backoff{
		Min:    500 * time.Millisecond,
		Max:    10 * time.Second,
		Factor: 2,
		Jitter: true,
	}

	var err error
	for attempt := 0; attempt < bootstrapAttempts; attempt++ {
		if err = n.p2p.host.Connect(ctx, pi); err == nil {
			return nil
		}
		if attempt == bootstrapAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.Duration()):
		}
	}

	return err
}

// resolveBootstrapPeers expands /dnsaddr entries and groups the results by
// peer.
func resolveBootstrapPeers(ctx context.Context, addrs []string) ([]peer.AddrInfo, error) {
	var resolved []multiaddr.Multiaddr

	for _, peerAddr := range addrs {
		ma, err := multiaddr.NewMultiaddr(peerAddr)
		if err != nil {
			return nil, errors.Wrap(err, "parsing bootstrap multiaddr")
		}

		mas, err := madns.Resolve(ctx, ma)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving %s", peerAddr)
		}

		resolved = append(resolved, mas...)
	}

	if len(resolved) == 0 {
		return nil, nil
	}

	peers, err := peer.AddrInfosFromP2pAddrs(resolved...)
	if err != nil {
		return nil, errors.Wrap(err, "bootstrap address without peer id")
	}

	return peers, nil
}
