package consensus

import (
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/tcfw/minichain/pkg/chain"
)

// App is the node state owned by the dispatcher: the local chain and the
// node identity. It is only touched from the event loop.
type App struct {
	self  peer.ID
	chain *chain.Chain
}

func newApp(self peer.ID) *App {
	return &App{
		self:  self,
		chain: chain.New(),
	}
}

func (a *App) isSelf(id string) bool {
	return id == a.self.String()
}
