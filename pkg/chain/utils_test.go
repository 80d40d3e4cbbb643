package chain

import (
	"context"
	"io/ioutil"
	"testing"

	"github.com/sirupsen/logrus"
)

const testDifficulty = DefaultDifficulty

func newTestMiner(difficulty uint) *Miner {
	l := logrus.New()
	l.SetOutput(ioutil.Discard)

	return NewMiner(difficulty, WithMinerLogger(logrus.NewEntry(l)))
}

// mineChain builds a valid chain of n blocks, genesis included
func mineChain(t *testing.T, n int) []Block {
	t.Helper()
	return mineChainData(t, n, "block")
}

func mineChainData(t *testing.T, n int, data string) []Block {
	t.Helper()

	m := newTestMiner(testDifficulty)
	blocks := []Block{Genesis()}

	for i := 1; i < n; i++ {
		b, err := NewBlock(context.Background(), m, blocks[i-1], data, int64(1650000000+i))
		if err != nil {
			t.Fatal(err)
		}
		blocks = append(blocks, b)
	}

	return blocks
}
