package consensus

import (
	"github.com/tcfw/minichain/pkg/chain"
	"github.com/tcfw/minichain/pkg/network"
)

// Event is anything the dispatcher reacts to
type Event interface {
	event()
}

// InitEvent fires once shortly after startup
type InitEvent struct{}

// InputEvent is one console line
type InputEvent struct {
	Line string
}

// LocalResponseEvent is a chain response built by this node for a peer,
// waiting to be published.
type LocalResponseEvent struct {
	Response *ChainResponse
}

// MsgEvent is an inbound network message
type MsgEvent struct {
	Msg *network.Message
}

// MinedEvent carries the result of a mining worker back to the loop
type MinedEvent struct {
	Seq   uint64
	Block chain.Block
	Err   error
}

func (InitEvent) event() {}
func (InputEvent) event() {}
func (LocalResponseEvent) event() {}
func (MsgEvent) event() {}
func (MinedEvent) event() {}
