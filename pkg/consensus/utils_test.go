package consensus

import (
	"bytes"
	"context"
	"io/ioutil"
	"sync"
	"testing"
	"time"

	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/tcfw/minichain/pkg/chain"
	"github.com/tcfw/minichain/pkg/network"
	"github.com/tcfw/minichain/pkg/network/mocks"
)

const testDifficulty = chain.DefaultDifficulty

type testNode struct {
	d   *Dispatcher
	net *mocks.Network
	out *bytes.Buffer

	mu   sync.Mutex
	sent []*network.Message
}

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(ioutil.Discard)
	return logrus.NewEntry(l)
}

func newTestNode(t *testing.T, self peer.ID, peers []peer.ID, opts ...Option) *testNode {
	t.Helper()

	n := &testNode{
		net: mocks.NewNetwork(t),
		out: &bytes.Buffer{},
	}

	n.net.On("ID").Return(self)
	n.net.On("Peers").Maybe().Return(peers)
	n.net.On("Publish", mock.Anything, mock.Anything, mock.Anything).Maybe().Return(nil).Run(func(args mock.Arguments) {
		n.mu.Lock()
		defer n.mu.Unlock()

		n.sent = append(n.sent, &network.Message{
			Topic: args.String(1),
			Data:  args.Get(2).([]byte),
			From:  self,
		})
	})

	logger := testLogger()
	opts = append([]Option{
		WithLogger(logger),
		WithOutput(n.out),
		WithDifficulty(testDifficulty, chain.WithMinerLogger(logger)),
	}, opts...)

	d, err := New(n.net, opts...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(d.Close)

	n.d = d

	return n
}

func (n *testNode) handle(e Event) {
	n.d.Handle(context.Background(), e)
}

// step waits for the next internal event and handles it
func (n *testNode) step(t *testing.T) {
	t.Helper()

	select {
	case <-n.d.internal.Ready():
		e, ok := n.d.internal.Pop()
		if !ok {
			t.Fatal("ready signalled without event")
		}
		n.handle(e)
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for internal event")
	}
}

// drain handles internal events that are already queued
func (n *testNode) drain() {
	for {
		e, ok := n.d.internal.Pop()
		if !ok {
			return
		}
		n.handle(e)
	}
}

func (n *testNode) createBlock(t *testing.T, data string) {
	t.Helper()

	n.handle(InputEvent{Line: "create b " + data})
	n.step(t)
}

func (n *testNode) published() []*network.Message {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]*network.Message, len(n.sent))
	copy(out, n.sent)
	return out
}

func (n *testNode) lastPublished(t *testing.T) *network.Message {
	t.Helper()

	sent := n.published()
	if len(sent) == 0 {
		t.Fatal("nothing published")
	}

	return sent[len(sent)-1]
}

// deliver hands a message published by src to dst as if it came off the wire
func deliver(src *testNode, dst *testNode, m *network.Message) {
	dst.handle(MsgEvent{Msg: &network.Message{
		Topic: m.Topic,
		Data:  m.Data,
		From:  src.d.ID(),
	}})
}

func mineOn(t *testing.T, prev chain.Block, data string) chain.Block {
	t.Helper()

	b, err := chain.NewBlock(context.Background(), chain.NewMiner(testDifficulty, chain.WithMinerLogger(testLogger())), prev, data, 1650000000)
	if err != nil {
		t.Fatal(err)
	}

	return b
}
