package chain

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinedBlockIsValid(t *testing.T) {
	v := NewPoWValidator(testDifficulty)
	blocks := mineChain(t, 5)

	for i := 1; i < len(blocks); i++ {
		assert.NoError(t, v.IsBlockValid(blocks[i], blocks[i-1]))
		assert.True(t, BlockIsValid(v, blocks[i], blocks[i-1]))
	}
}

func TestBlockMutationsRejected(t *testing.T) {
	v := NewPoWValidator(testDifficulty)
	g := Genesis()

	b, err := NewBlock(context.Background(), newTestMiner(testDifficulty), g, "hello", 1650000000)
	if err != nil {
		t.Fatal(err)
	}

	tests := map[string]struct {
		mutate func(b *Block)
		reason error
	}{
		"previous hash": {
			mutate: func(b *Block) { b.PreviousHash = strings.Repeat("a", 64) },
			reason: ErrBadPreviousHash,
		},
		"hash above target": {
			mutate: func(b *Block) { b.Hash = strings.Repeat("f", 64) },
			reason: ErrInsufficientDifficulty,
		},
		"hash not hex": {
			mutate: func(b *Block) { b.Hash = "zz" },
			reason: ErrInsufficientDifficulty,
		},
		"id": {
			mutate: func(b *Block) { b.ID = 5 },
			reason: ErrNonSequentialID,
		},
		"data": {
			mutate: func(b *Block) { b.Data = "goodbye" },
			reason: ErrHashMismatch,
		},
		"timestamp": {
			mutate: func(b *Block) { b.Timestamp++ },
			reason: ErrHashMismatch,
		},
		"nonce": {
			mutate: func(b *Block) { b.Nonce++ },
			reason: ErrHashMismatch,
		},
		"hash meets target but not derived": {
			mutate: func(b *Block) { b.Hash = "00" + strings.Repeat("1", 62) },
			reason: ErrHashMismatch,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			c := b
			tc.mutate(&c)

			err := v.IsBlockValid(c, g)
			assert.ErrorIs(t, err, tc.reason)
			assert.Equal(t, tc.reason, RejectionReason(err))
		})
	}
}

func TestChainValidity(t *testing.T) {
	v := NewPoWValidator(testDifficulty)

	assert.NoError(t, v.IsChainValid([]Block{Genesis()}))
	assert.ErrorIs(t, v.IsChainValid(nil), ErrEmptyChain)
	assert.False(t, ChainIsValid(v, []Block{}))

	blocks := mineChain(t, 4)
	assert.True(t, ChainIsValid(v, blocks))

	blocks[2].Data = "tampered"
	err := v.IsChainValid(blocks)
	assert.ErrorIs(t, err, ErrHashMismatch)
	assert.Equal(t, ErrHashMismatch, RejectionReason(err))
}

func TestIDWrapAroundRejected(t *testing.T) {
	v := NewPoWValidator(testDifficulty)
	m := newTestMiner(testDifficulty)

	pred := Genesis()
	pred.ID = math.MaxUint64

	nonce, hash, err := m.Mine(context.Background(), 0, 1650000000, pred.Hash, "wrapped")
	if err != nil {
		t.Fatal(err)
	}

	wrapped := Block{
		ID:           0,
		Hash:         hash,
		PreviousHash: pred.Hash,
		Timestamp:    1650000000,
		Data:         "wrapped",
		Nonce:        nonce,
	}

	err = v.IsBlockValid(wrapped, pred)
	assert.ErrorIs(t, err, ErrNonSequentialID)

	_, err = NewBlock(context.Background(), m, pred, "next", 1650000000)
	assert.ErrorIs(t, err, ErrNonSequentialID)
}

func TestNewBlockReplacesInvalidUTF8(t *testing.T) {
	g := Genesis()

	b, err := NewBlock(context.Background(), newTestMiner(testDifficulty), g, "bad\xffbyte", 1650000000)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "bad\ufffdbyte", b.Data)
	assert.NoError(t, NewPoWValidator(testDifficulty).IsBlockValid(b, g))
}
