package consensus

import "github.com/tcfw/minichain/pkg/network"

// Tracer observes wire traffic handled by the dispatcher
type Tracer interface {
	OnMsg(*network.Message)
	OnSendMsg(*network.Message)
}
