package consensus

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/minichain/pkg/chain"
)

type Option func(*Dispatcher) error

func WithValidator(v chain.Validator) Option {
	return func(d *Dispatcher) error {
		d.validator = v
		return nil
	}
}

func WithMiner(m *chain.Miner) Option {
	return func(d *Dispatcher) error {
		d.miner = m
		return nil
	}
}

// WithDifficulty sets up a matching miner and validator
func WithDifficulty(bits uint, opts ...chain.MinerOption) Option {
	return func(d *Dispatcher) error {
		d.miner = chain.NewMiner(bits, opts...)
		d.validator = chain.NewPoWValidator(bits)
		return nil
	}
}

func WithGenesis(g chain.Block) Option {
	return func(d *Dispatcher) error {
		if g.ID != 0 {
			return errors.Wrap(chain.ErrInvalidGenesis, "id must be 0")
		}
		d.genesis = g
		return nil
	}
}

func WithLogger(l *logrus.Entry) Option {
	return func(d *Dispatcher) error {
		d.logger = l
		return nil
	}
}

// WithOutput sets where console command output is written
func WithOutput(w io.Writer) Option {
	return func(d *Dispatcher) error {
		d.out = w
		return nil
	}
}

func WithTracer(t Tracer) Option {
	return func(d *Dispatcher) error {
		d.tracer = t
		return nil
	}
}

func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) error {
		d.now = now
		return nil
	}
}
