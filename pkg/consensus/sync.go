package consensus

import (
	"context"

	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/pkg/errors"
	"github.com/tcfw/minichain/pkg/chain"
	"github.com/tcfw/minichain/pkg/network"
)

// onChainRequest answers a peer asking for our chain. The answer goes through
// the internal queue so outbound traffic is published from the loop.
func (d *Dispatcher) onChainRequest(req *ChainRequest, from peer.ID) {
	if from == d.app.self || d.app.isSelf(req.FromPeerID) {
		return
	}

	if req.Target != "" && !d.app.isSelf(req.Target) {
		d.logger.WithField("target", req.Target).Debug("chain request for another peer")
		return
	}

	if d.app.chain.Empty() {
		d.logger.WithField("from", from).Debug("no chain to offer yet")
		return
	}

	//pubsub authenticates the message source; prefer it over the claimed id
	receiver := req.FromPeerID
	if from != "" {
		if from.String() != req.FromPeerID {
			d.logger.WithField("claimed", req.FromPeerID).WithField("from", from).Warn("chain request origin mismatch")
		}
		receiver = from.String()
	}

	d.logger.WithField("to", receiver).Info("sending local chain")

	d.internal.Push(LocalResponseEvent{
		Response: &ChainResponse{
			Blocks:   d.app.chain.Blocks(),
			Receiver: receiver,
		},
	})
}

func (d *Dispatcher) publishResponse(ctx context.Context, resp *ChainResponse) {
	if resp == nil {
		return
	}

	b, err := resp.Marshal()
	if err != nil {
		d.logger.WithError(err).Error("encoding chain response")
		return
	}

	d.publish(ctx, network.ChainTopic, b)
}

// onChainResponse reconciles the local chain with a peer's chain addressed to
// this node.
func (d *Dispatcher) onChainResponse(resp *ChainResponse, from peer.ID) {
	if !d.app.isSelf(resp.Receiver) {
		return
	}

	d.logger.WithField("from", from).WithField("length", len(resp.Blocks)).Info("chain response")

	choice, err := chain.ChooseChain(d.validator, d.app.chain.Blocks(), resp.Blocks)
	if err != nil {
		if errors.Is(err, chain.ErrConsensusFailure) {
			d.logger.WithError(err).WithField("from", from).Error("CONSENSUS FAILURE: keeping local chain")
			return
		}
		d.logger.WithError(err).Error("choosing chain")
		return
	}

	if !choice.Remote {
		d.logger.Debug("keeping local chain")
		return
	}

	d.app.chain.Replace(choice.Blocks)
	d.logger.WithField("length", d.app.chain.Len()).Info("adopted remote chain")
}
