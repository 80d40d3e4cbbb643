package consensus

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/minichain/pkg/chain"
	"github.com/tcfw/minichain/pkg/network"
)

// Dispatcher is the node's synchronization state machine. It owns the App
// state and must only be driven from a single goroutine; Runtime provides
// that loop.
type Dispatcher struct {
	app *App
	net network.Network

	validator chain.Validator
	miner     *chain.Miner
	genesis   chain.Block

	internal *eventQueue
	tracer   Tracer
	logger   *logrus.Entry
	out      io.Writer
	now      func() time.Time

	pending    []string
	mineSeq    uint64
	cancelMine context.CancelFunc
	miners     sync.WaitGroup
}

func New(n network.Network, opts ...Option) (*Dispatcher, error) {
	if n == nil {
		return nil, errors.New("network required")
	}

	d := &Dispatcher{
		app:       newApp(n.ID()),
		net:       n,
		validator: chain.NewPoWValidator(chain.DefaultDifficulty),
		miner:     chain.NewMiner(chain.DefaultDifficulty),
		genesis:   chain.Genesis(),
		internal:  newEventQueue(),
		logger:    logrus.NewEntry(logrus.StandardLogger()),
		out:       os.Stdout,
		now:       time.Now,
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// ID is the local peer id
func (d *Dispatcher) ID() peer.ID {
	return d.app.self
}

// Chain returns a copy of the local chain. Not safe to call while the
// runtime loop is running.
func (d *Dispatcher) Chain() []chain.Block {
	return d.app.chain.Blocks()
}

// Post queues an event for the loop. Safe for concurrent use.
func (d *Dispatcher) Post(e Event) {
	d.internal.Push(e)
}

// Handle processes a single event to completion. Failures are contained and
// logged; Handle never panics on peer supplied data.
func (d *Dispatcher) Handle(ctx context.Context, e Event) {
	switch ev := e.(type) {
	case InitEvent:
		d.onInit(ctx)
	case InputEvent:
		d.onInput(ctx, ev.Line)
	case LocalResponseEvent:
		d.publishResponse(ctx, ev.Response)
	case MsgEvent:
		d.onMsg(ctx, ev.Msg)
	case MinedEvent:
		d.onMined(ctx, ev)
	default:
		d.logger.Warnf("unknown event %T", e)
	}
}

// Close aborts any in-flight mining, drops queued requests and waits for the
// worker to exit.
func (d *Dispatcher) Close() {
	if d.cancelMine != nil {
		d.cancelMine()
		d.cancelMine = nil
	}
	d.pending = nil

	d.miners.Wait()
}

func (d *Dispatcher) onInit(ctx context.Context) {
	if d.app.chain.Empty() {
		if err := d.app.chain.AppendGenesis(d.genesis); err != nil {
			d.logger.WithError(err).Error("adding genesis block")
			return
		}
		d.logger.WithField("hash", d.genesis.Hash).Info("added genesis block")
	}

	peers := network.SortedPeers(d.app.self, d.net.Peers())
	d.logger.WithField("count", len(peers)).Info("connected nodes")

	if len(peers) == 0 {
		return
	}

	target := peers[len(peers)-1]
	req := &ChainRequest{
		FromPeerID: d.app.self.String(),
		Target:     target.String(),
	}

	b, err := req.Marshal()
	if err != nil {
		d.logger.WithError(err).Error("encoding chain request")
		return
	}

	d.logger.WithField("peer", target).Info("requesting chain")
	d.publish(ctx, network.ChainTopic, b)
}

func (d *Dispatcher) onMsg(ctx context.Context, msg *network.Message) {
	if msg == nil {
		return
	}

	if d.tracer != nil {
		d.tracer.OnMsg(msg)
	}

	switch msg.Topic {
	case network.ChainTopic:
		sm, err := DecodeSyncMsg(msg.Data)
		if err != nil {
			d.logger.WithError(err).WithField("from", msg.From).Warn("dropping chain sync message")
			return
		}

		switch sm.Kind {
		case MsgKindRequest:
			d.onChainRequest(sm.Request, msg.From)
		case MsgKindResponse:
			d.onChainResponse(sm.Response, msg.From)
		}
	case network.BlockTopic:
		b, err := DecodeBlock(msg.Data)
		if err != nil {
			d.logger.WithError(err).WithField("from", msg.From).Warn("dropping block message")
			return
		}

		d.onBlock(b, msg.From)
	default:
		d.logger.WithField("topic", msg.Topic).Debug("message on unknown topic")
	}
}

func (d *Dispatcher) publish(ctx context.Context, topic string, data []byte) {
	if d.tracer != nil {
		d.tracer.OnSendMsg(&network.Message{Topic: topic, Data: data, From: d.app.self})
	}

	if err := d.net.Publish(ctx, topic, data); err != nil {
		d.logger.WithError(err).WithField("topic", topic).Error("publishing")
	}
}
