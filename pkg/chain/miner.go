package chain

import (
	"context"
	"encoding/hex"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	DefaultDifficulty       uint   = 2
	DefaultProgressInterval uint64 = 100000

	//how often the search loop polls for cancellation
	ctxCheckInterval = 1 << 12
)

// Miner performs the proof-of-work nonce search. The search has no upper
// bound; it terminates with probability 1 for any difficulty below the digest
// size but no attempt count is guaranteed.
type Miner struct {
	difficulty uint
	progress   uint64
	logger     *logrus.Entry
}

type MinerOption func(*Miner)

func WithProgressInterval(n uint64) MinerOption {
	return func(m *Miner) {
		if n > 0 {
			m.progress = n
		}
	}
}

func WithMinerLogger(l *logrus.Entry) MinerOption {
	return func(m *Miner) {
		m.logger = l
	}
}

func NewMiner(difficulty uint, opts ...MinerOption) *Miner {
	m := &Miner{
		difficulty: difficulty,
		progress:   DefaultProgressInterval,
		logger:     logrus.NewEntry(logrus.StandardLogger()),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *Miner) Difficulty() uint {
	return m.difficulty
}

// Mine searches nonces from 0 upwards until the digest of the block fields
// meets the difficulty, returning the nonce and the hex encoded hash.
func (m *Miner) Mine(ctx context.Context, id uint64, timestamp int64, previousHash, data string) (uint64, string, error) {
	m.logger.WithField("id", id).Info("mining block")

	p := newPreimage(id, previousHash, data, timestamp)

	for nonce := uint64(0); ; nonce++ {
		if nonce%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return 0, "", errors.Wrap(err, "mining aborted")
			}
		}

		if nonce != 0 && nonce%m.progress == 0 {
			m.logger.WithField("nonce", nonce).Info("mining progress")
		}

		sum := p.sum(nonce)
		if DifficultySatisfied(sum[:], m.difficulty) {
			hash := hex.EncodeToString(sum[:])

			m.logger.WithFields(logrus.Fields{
				"id":     id,
				"nonce":  nonce,
				"hash":   hash,
				"binary": BitString(sum[:]),
			}).Info("mined block")

			return nonce, hash, nil
		}
	}
}
