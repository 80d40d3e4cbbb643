package consensus

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/tcfw/minichain/pkg/chain"
	"github.com/tcfw/minichain/pkg/network"
	"gopkg.in/yaml.v3"
)

const (
	cmdListPeers   = "ls p"
	cmdListChain   = "ls c"
	cmdCreateBlock = "create b"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
)

func (d *Dispatcher) onInput(ctx context.Context, line string) {
	line = strings.TrimSpace(line)

	var err error

	switch {
	case line == "":
		return
	case line == cmdListPeers:
		d.printPeers()
	case line == cmdListChain:
		err = d.printChain()
	case line == cmdCreateBlock || strings.HasPrefix(line, cmdCreateBlock+" "):
		data := strings.TrimSpace(strings.TrimPrefix(line, cmdCreateBlock))
		err = d.mineBlock(ctx, data)
	default:
		err = errors.Wrap(ErrUnknownCommand, line)
	}

	if err != nil {
		d.logger.WithError(err).WithField("cmd", line).Error("command failed")
		fmt.Fprintf(d.out, "error: %s\n", err)
	}
}

func (d *Dispatcher) printPeers() {
	peers := network.SortedPeers(d.app.self, d.net.Peers())

	d.logger.WithField("count", len(peers)).Info("discovered peers")
	for _, p := range peers {
		fmt.Fprintln(d.out, p.String())
	}
}

func (d *Dispatcher) printChain() error {
	blocks := d.app.chain.Blocks()
	if len(blocks) == 0 {
		return chain.ErrEmptyChain
	}

	b, err := yaml.Marshal(blocks)
	if err != nil {
		return errors.Wrap(err, "rendering chain")
	}

	_, err = d.out.Write(b)
	return err
}
