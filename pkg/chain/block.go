package chain

import (
	"context"
	"math"

	"github.com/pkg/errors"
)

// Block is a single entry of the ledger. Blocks are values and are never
// modified once mined or accepted.
type Block struct {
	ID           uint64 `json:"id" msgpack:"i" yaml:"id"`
	Hash         string `json:"hash" msgpack:"h" yaml:"hash"`
	PreviousHash string `json:"previous_hash" msgpack:"p" yaml:"previous_hash"`
	Timestamp    int64  `json:"timestamp" msgpack:"t" yaml:"timestamp"`
	Data         string `json:"data" msgpack:"d" yaml:"data"`
	Nonce        uint64 `json:"nonce" msgpack:"n" yaml:"nonce"`
}

// NewBlock mines a block extending prev carrying data. Invalid UTF-8 in data
// is replaced before mining. Mining stops early when ctx is cancelled.
func NewBlock(ctx context.Context, m *Miner, prev Block, data string, timestamp int64) (Block, error) {
	if prev.ID == math.MaxUint64 {
		return Block{}, errors.Wrap(ErrNonSequentialID, "predecessor id at maximum")
	}

	b := Block{
		ID:           prev.ID + 1,
		PreviousHash: prev.Hash,
		Timestamp:    timestamp,
		Data:         ValidData(data),
	}

	nonce, hash, err := m.Mine(ctx, b.ID, b.Timestamp, b.PreviousHash, b.Data)
	if err != nil {
		return Block{}, errors.Wrapf(err, "mining block %d", b.ID)
	}

	b.Nonce = nonce
	b.Hash = hash

	return b, nil
}

// ComputeHash recomputes the hex digest of the block contents, ignoring the
// claimed Hash field.
func (b Block) ComputeHash() string {
	return HashHex(b.ID, b.PreviousHash, b.Data, b.Timestamp, b.Nonce)
}
