package consensus

import (
	"context"
	"fmt"

	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/minichain/pkg/chain"
	"github.com/tcfw/minichain/pkg/network"
)

func (d *Dispatcher) onBlock(b chain.Block, from peer.ID) {
	logger := d.logger.WithFields(logrus.Fields{"id": b.ID, "from": from})

	if d.app.chain.Has(b.Hash) {
		logger.Debug("already have block")
		return
	}

	if err := d.app.chain.TryAppend(d.validator, b); err != nil {
		logger.WithError(err).Warn("could not add block")
		return
	}

	logger.Info("accepted block")
}

// mineBlock queues data to be mined. Requests are mined one at a time in
// the order they were made, each on the tip current when its mine starts.
func (d *Dispatcher) mineBlock(ctx context.Context, data string) error {
	if d.app.chain.Empty() {
		return chain.ErrEmptyChain
	}

	d.pending = append(d.pending, data)

	if d.cancelMine != nil {
		d.logger.WithField("queued", len(d.pending)-1).Info("mine in progress, block queued")
		return nil
	}

	d.startMine(ctx)
	return nil
}

// startMine mines the head of the pending queue on a worker; the result
// comes back as a MinedEvent.
func (d *Dispatcher) startMine(ctx context.Context) {
	tip, ok := d.app.chain.Tip()
	if !ok || len(d.pending) == 0 {
		return
	}

	mctx, cancel := context.WithCancel(ctx)
	d.mineSeq++
	seq := d.mineSeq
	d.cancelMine = cancel

	data := d.pending[0]
	ts := d.now().Unix()
	m := d.miner

	d.miners.Add(1)
	go func() {
		defer d.miners.Done()

		b, err := chain.NewBlock(mctx, m, tip, data, ts)
		d.internal.Push(MinedEvent{Seq: seq, Block: b, Err: err})
	}()
}

// onMined appends and broadcasts a freshly mined block. If the chain moved
// while mining, the same data is mined again on the new tip.
func (d *Dispatcher) onMined(ctx context.Context, ev MinedEvent) {
	if d.cancelMine == nil || ev.Seq != d.mineSeq {
		d.logger.WithField("seq", ev.Seq).Debug("ignoring result of a mine no longer in flight")
		return
	}

	d.cancelMine()
	d.cancelMine = nil

	if ev.Err != nil {
		if errors.Is(ev.Err, context.Canceled) {
			d.logger.WithField("dropped", len(d.pending)).Warn("mining cancelled, pending blocks dropped")
			d.pending = nil
			return
		}

		d.logger.WithError(ev.Err).Error("mining block")
		fmt.Fprintf(d.out, "error: %s\n", ev.Err)
		d.nextMine(ctx)
		return
	}

	if tip, ok := d.app.chain.Tip(); ok && ev.Block.PreviousHash != tip.Hash {
		d.logger.WithField("id", ev.Block.ID).WithField("tip", tip.ID).Info("chain moved while mining, mining again on new tip")
		d.startMine(ctx)
		return
	}

	if err := d.app.chain.TryAppend(d.validator, ev.Block); err != nil {
		d.logger.WithError(err).WithField("id", ev.Block.ID).Error("discarding mined block")
		fmt.Fprintf(d.out, "error: %s\n", err)
		d.nextMine(ctx)
		return
	}

	d.nextMine(ctx)

	b, err := EncodeBlock(ev.Block)
	if err != nil {
		d.logger.WithError(err).Error("encoding block")
		return
	}

	d.logger.WithField("id", ev.Block.ID).Info("broadcasting new block")
	d.publish(ctx, network.BlockTopic, b)
}

// nextMine drops the finished request and starts the next one, if any
func (d *Dispatcher) nextMine(ctx context.Context) {
	d.pending[0] = ""
	d.pending = d.pending[1:]

	if len(d.pending) == 0 {
		d.pending = nil
		return
	}

	d.startMine(ctx)
}
