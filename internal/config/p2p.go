package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Router string

const (
	RouterFloodSub  Router = "floodsub"
	RouterGossipSub Router = "gossipsub"
)

type P2P struct {
	Connections struct {
		PeersCountHigh int
		PeersCountLow  int
	}
	BootstrapPeers  []string
	ListenAddrs     []string
	IdentityFile    string
	EnableMDNS      bool
	MDNSServiceName string
	EnableDHT       bool
	Router          Router
}

const (
	Cfg_p2p_connections_peerCountLow  = "p2p.connections.peerCountLow"
	Cfg_p2p_connections_peerCountHigh = "p2p.connections.peerCountHigh"
	Cfg_p2p_bootstrapPeers            = "p2p.bootstrapPeers"
	Cfg_p2p_listeningAddrs            = "p2p.listeningAddrs"
	Cfg_p2p_identityFile              = "p2p.identityFile"
	Cfg_p2p_enableMDNS                = "p2p.enableMDNS"
	Cfg_p2p_mdnsServiceName           = "p2p.mdnsServiceName"
	Cfg_p2p_enableDHT                 = "p2p.enableDHT"
	Cfg_p2p_router                    = "p2p.router"
)

var (
	p2pDefaults = map[string]interface{}{
		Cfg_p2p_connections_peerCountLow:  32,
		Cfg_p2p_connections_peerCountHigh: 64,
		Cfg_p2p_bootstrapPeers:            []string{},
		Cfg_p2p_listeningAddrs: []string{
			"/ip4/0.0.0.0/tcp/0",
		},
		Cfg_p2p_identityFile:    "",
		Cfg_p2p_enableMDNS:      true,
		Cfg_p2p_mdnsServiceName: "minichain",
		Cfg_p2p_enableDHT:       false,
		Cfg_p2p_router:          string(RouterFloodSub),
	}
)

func init() {
	for k, v := range p2pDefaults {
		viper.SetDefault(k, v)
	}
}

func buildP2PConfig() (*P2P, error) {
	c := &P2P{}

	c.Connections.PeersCountLow = viper.GetInt(Cfg_p2p_connections_peerCountLow)
	c.Connections.PeersCountHigh = viper.GetInt(Cfg_p2p_connections_peerCountHigh)
	c.BootstrapPeers = viper.GetStringSlice(Cfg_p2p_bootstrapPeers)
	c.ListenAddrs = viper.GetStringSlice(Cfg_p2p_listeningAddrs)
	c.IdentityFile = viper.GetString(Cfg_p2p_identityFile)
	c.EnableMDNS = viper.GetBool(Cfg_p2p_enableMDNS)
	c.MDNSServiceName = viper.GetString(Cfg_p2p_mdnsServiceName)
	c.EnableDHT = viper.GetBool(Cfg_p2p_enableDHT)
	c.Router = Router(viper.GetString(Cfg_p2p_router))

	if c.Connections.PeersCountLow > c.Connections.PeersCountHigh {
		return nil, errors.Errorf("peer count low (%d) above high (%d)", c.Connections.PeersCountLow, c.Connections.PeersCountHigh)
	}

	switch c.Router {
	case RouterFloodSub, RouterGossipSub:
	default:
		return nil, errors.Errorf("unknown pubsub router %q", c.Router)
	}

	return c, nil
}
