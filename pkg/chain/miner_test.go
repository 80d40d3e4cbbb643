package chain

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMineMeetsDifficulty(t *testing.T) {
	m := newTestMiner(8)

	nonce, hash, err := m.Mine(context.Background(), 1, 1650000000, Genesis().Hash, "hello")
	if err != nil {
		t.Fatal(err)
	}

	digest, err := hex.DecodeString(hash)
	if err != nil {
		t.Fatal(err)
	}

	assert.True(t, DifficultySatisfied(digest, 8))
	assert.Equal(t, HashHex(1, Genesis().Hash, "hello", 1650000000, nonce), hash)
}

func TestMineFirstSatisfyingNonce(t *testing.T) {
	m := newTestMiner(testDifficulty)

	nonce, _, err := m.Mine(context.Background(), 3, 42, "prev", "data")
	if err != nil {
		t.Fatal(err)
	}

	for n := uint64(0); n < nonce; n++ {
		h := Hash(3, "prev", "data", 42, n)
		assert.False(t, DifficultySatisfied(h[:], testDifficulty), "nonce %d also satisfies", n)
	}
}

func TestMineCancelled(t *testing.T) {
	m := newTestMiner(256)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := m.Mine(ctx, 1, 1, "prev", "data")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewBlockLinksToPrevious(t *testing.T) {
	m := newTestMiner(testDifficulty)
	g := Genesis()

	b, err := NewBlock(context.Background(), m, g, "hello", 1650000000)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, uint64(1), b.ID)
	assert.Equal(t, g.Hash, b.PreviousHash)
	assert.Equal(t, "hello", b.Data)
	assert.Equal(t, b.ComputeHash(), b.Hash)
}
