package node

import (
	"context"
	"time"

	"github.com/libp2p/go-libp2p"
	dht "github.com/libp2p/go-libp2p-kad-dht"
	"github.com/libp2p/go-libp2p-peerstore/pstoremem"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	connmgriFace "github.com/libp2p/go-libp2p/core/connmgr"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/peerstore"
	"github.com/libp2p/go-libp2p/p2p/discovery/mdns"
	drouting "github.com/libp2p/go-libp2p/p2p/discovery/routing"
	dutil "github.com/libp2p/go-libp2p/p2p/discovery/util"
	"github.com/libp2p/go-libp2p/p2p/net/connmgr"
	"github.com/multiformats/go-multiaddr"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tcfw/minichain/internal/config"
)

const (
	dhtFindInterval = 30 * time.Second
)

type p2pHost struct {
	host host.Host

	peerStore peerstore.Peerstore
	connMgr   connmgriFace.ConnManager
	pubsub    *pubsub.PubSub
	dht       *dht.IpfsDHT
	discovery *drouting.RoutingDiscovery
	mdns      mdns.Service
	peers     *peerTracker
}

func newP2PHost(ctx context.Context, cfg *config.P2P, l *logrus.Entry) (*p2pHost, error) {
	var err error
	h := &p2pHost{}

	id, err := getIdentity(cfg.IdentityFile, l)
	if err != nil {
		return nil, err
	}

	listeningAddrs, err := buildListeningAddrs(cfg)
	if err != nil {
		return nil, err
	}

	h.connMgr, err = connmgr.NewConnManager(
		cfg.Connections.PeersCountLow,
		cfg.Connections.PeersCountHigh,
	)
	if err != nil {
		return nil, err
	}

	h.peerStore, err = pstoremem.NewPeerstore()
	if err != nil {
		return nil, err
	}

	opts := []libp2p.Option{
		id,
		listeningAddrs,
		libp2p.DefaultTransports,
		libp2p.DefaultResourceManager,
		libp2p.DefaultMuxers,
		libp2p.DefaultSecurity,
		libp2p.ConnectionManager(h.connMgr),
		libp2p.Peerstore(h.peerStore),
		libp2p.NATPortMap(),
		libp2p.DisableMetrics(),
	}

	h.host, err = libp2p.NewWithoutDefaults(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "creating libp2p host")
	}

	h.peers = newPeerTracker(h.host, l.WithField("component", "discovery"))

	if cfg.EnableDHT {
		if err := h.setupDHT(ctx, cfg); err != nil {
			h.Close()
			return nil, err
		}
	}

	h.pubsub, err = newRouter(ctx, cfg, h)
	if err != nil {
		h.Close()
		return nil, err
	}

	if cfg.EnableMDNS {
		h.mdns = mdns.NewMdnsService(h.host, cfg.MDNSServiceName, h.peers)
		if err := h.mdns.Start(); err != nil {
			h.Close()
			return nil, errors.Wrap(err, "starting mdns")
		}
	}

	return h, nil
}

// setupDHT starts the DHT and routing discovery. On error h.dht may be set
// and is released by Close.
func (h *p2pHost) setupDHT(ctx context.Context, cfg *config.P2P) error {
	d, err := dht.New(ctx, h.host, dht.Mode(dht.ModeAutoServer))
	if err != nil {
		return errors.Wrap(err, "initing DHT")
	}
	h.dht = d

	if err := h.dht.Bootstrap(ctx); err != nil {
		return errors.Wrap(err, "bootstrapping DHT")
	}

	h.discovery = drouting.NewRoutingDiscovery(h.dht)
	dutil.Advertise(ctx, h.discovery, cfg.MDNSServiceName)

	go h.peers.findPeers(ctx, func(ctx context.Context) (<-chan peer.AddrInfo, error) {
		return h.discovery.FindPeers(ctx, cfg.MDNSServiceName)
	}, dhtFindInterval)

	return nil
}

func newRouter(ctx context.Context, cfg *config.P2P, h *p2pHost) (*pubsub.PubSub, error) {
	opts := []pubsub.Option{
		pubsub.WithStrictSignatureVerification(true),
	}
	if h.discovery != nil {
		opts = append(opts, pubsub.WithDiscovery(h.discovery))
	}

	switch cfg.Router {
	case config.RouterGossipSub:
		p, err := pubsub.NewGossipSub(ctx, h.host, append(opts, pubsub.WithPeerExchange(true))...)
		if err != nil {
			return nil, errors.Wrap(err, "creating gossipsub router")
		}
		return p, nil
	default:
		p, err := pubsub.NewFloodSub(ctx, h.host, opts...)
		if err != nil {
			return nil, errors.Wrap(err, "creating floodsub router")
		}
		return p, nil
	}
}

func (h *p2pHost) Close() error {
	if h.mdns != nil {
		h.mdns.Close()
	}
	if h.dht != nil {
		h.dht.Close()
	}

	return h.host.Close()
}

func buildListeningAddrs(cfg *config.P2P) (libp2p.Option, error) {
	maAddrs := []multiaddr.Multiaddr{}

	for _, addr := range cfg.ListenAddrs {
		maddr, err := multiaddr.NewMultiaddr(addr)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing listen address %s", addr)
		}
		maAddrs = append(maAddrs, maddr)
	}

	return libp2p.ListenAddrs(maAddrs...), nil
}
