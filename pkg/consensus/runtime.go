package consensus

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/minichain/pkg/network"
)

const (
	DefaultInitDelay = 1 * time.Second
)

// Runtime multiplexes console lines, internal events and inbound network
// messages into a Dispatcher, one event at a time.
type Runtime struct {
	d         *Dispatcher
	initDelay time.Duration
	logger    *logrus.Entry
}

func NewRuntime(d *Dispatcher, initDelay time.Duration) *Runtime {
	return &Runtime{
		d:         d,
		initDelay: initDelay,
		logger:    d.logger.WithField("component", "runtime"),
	}
}

// Run drives the dispatcher until ctx is done. A closed console does not stop
// the node.
func (r *Runtime) Run(ctx context.Context, lines <-chan string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	chainMsgs, err := r.d.net.Subscribe(ctx, network.ChainTopic)
	if err != nil {
		return errors.Wrap(err, "subscribing to chain topic")
	}

	blockMsgs, err := r.d.net.Subscribe(ctx, network.BlockTopic)
	if err != nil {
		return errors.Wrap(err, "subscribing to block topic")
	}

	initTimer := time.AfterFunc(r.initDelay, func() {
		r.logger.Debug("sending init event")
		r.d.Post(InitEvent{})
	})
	defer initTimer.Stop()

	defer r.d.Close()

	for {
		var ev Event

		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				r.logger.Debug("console closed")
				lines = nil
				continue
			}
			ev = InputEvent{Line: line}
		case <-r.d.internal.Ready():
			e, ok := r.d.internal.Pop()
			if !ok {
				continue
			}
			ev = e
		case m, ok := <-chainMsgs:
			if !ok {
				r.logger.Warn("chain subscription closed")
				chainMsgs = nil
				continue
			}
			ev = MsgEvent{Msg: m}
		case m, ok := <-blockMsgs:
			if !ok {
				r.logger.Warn("block subscription closed")
				blockMsgs = nil
				continue
			}
			ev = MsgEvent{Msg: m}
		}

		r.d.Handle(ctx, ev)
	}
}
