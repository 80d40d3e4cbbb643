package node

import (
	"context"
	"io/ioutil"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tcfw/minichain/internal/config"
	"github.com/tcfw/minichain/pkg/chain"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(ioutil.Discard)
	return logrus.NewEntry(l)
}

func testConfig(bootstrap ...string) *config.Config {
	p := &config.P2P{
		ListenAddrs:     []string{"/ip4/127.0.0.1/tcp/0"},
		BootstrapPeers:  bootstrap,
		MDNSServiceName: "minichain-test",
		Router:          config.RouterFloodSub,
	}
	p.Connections.PeersCountLow = 10
	p.Connections.PeersCountHigh = 20

	c := &config.Chain{
		Difficulty:       chain.DefaultDifficulty,
		ProgressInterval: chain.DefaultProgressInterval,
		InitDelay:        50 * time.Millisecond,
		Genesis:          chain.GenesisInfo{ChainID: "test", Block: chain.Genesis()},
	}

	return config.New(p, c)
}

func newTestNode(t *testing.T, cfg *config.Config) *Node {
	t.Helper()

	n, err := NewNode(context.Background(),
		WithConfig(cfg),
		WithLogger(testLogger()),
		WithOutput(ioutil.Discard),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { n.Stop() })

	return n
}
