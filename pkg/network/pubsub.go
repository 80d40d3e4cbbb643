package network

import (
	"context"
	"sync"

	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	pubsubBuf = 32
)

var (
	_ Network = (*PubSub)(nil)
)

// PubSub adapts a libp2p pubsub router to Network. Messages published by
// this node are not delivered back to its own subscriptions.
type PubSub struct {
	self   peer.ID
	router *pubsub.PubSub
	peers  PeerSource
	logger *logrus.Entry

	mu     sync.Mutex
	topics map[string]*pubsub.Topic
}

func NewPubSub(self peer.ID, router *pubsub.PubSub, peers PeerSource, logger *logrus.Entry) *PubSub {
	return &PubSub{
		self:   self,
		router: router,
		peers:  peers,
		logger: logger,
		topics: make(map[string]*pubsub.Topic),
	}
}

func (p *PubSub) ID() peer.ID {
	return p.self
}

// Peers lists discovered peers. Without a discovery source it falls back to
// the peers the router knows on the node's topics.
func (p *PubSub) Peers() []peer.ID {
	if p.peers != nil {
		return SortedPeers(p.self, p.peers.Peers())
	}

	var ids []peer.ID
	for _, t := range []string{ChainTopic, BlockTopic} {
		ids = append(ids, p.router.ListPeers(t)...)
	}

	return SortedPeers(p.self, ids)
}

func (p *PubSub) topic(name string) (*pubsub.Topic, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, ok := p.topics[name]
	if ok {
		return t, nil
	}

	t, err := p.router.Join(name)
	if err != nil {
		return nil, errors.Wrapf(err, "joining topic %s", name)
	}

	p.topics[name] = t

	return t, nil
}

// Subscribe delivers messages on topic until ctx is done, at which point the
// returned channel is closed.
func (p *PubSub) Subscribe(ctx context.Context, topic string) (<-chan *Message, error) {
	t, err := p.topic(topic)
	if err != nil {
		return nil, err
	}

	sub, err := t.Subscribe()
	if err != nil {
		return nil, errors.Wrapf(err, "subscribing to topic %s", topic)
	}

	msgCh := make(chan *Message, pubsubBuf)

	go func() {
		defer close(msgCh)
		defer sub.Cancel()

		for {
			m, err := sub.Next(ctx)
			if err != nil {
				if ctx.Err() == nil {
					p.logger.WithError(err).Errorf("sub %s closed", topic)
				}
				return
			}

			if m.ReceivedFrom == p.self {
				continue
			}

			select {
			case msgCh <- &Message{Topic: topic, Data: m.Data, From: m.GetFrom()}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return msgCh, nil
}

func (p *PubSub) Publish(ctx context.Context, topic string, data []byte) error {
	t, err := p.topic(topic)
	if err != nil {
		return err
	}

	return errors.Wrapf(t.Publish(ctx, data), "publishing to %s", topic)
}
