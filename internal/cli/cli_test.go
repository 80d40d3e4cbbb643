package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcfw/minichain/pkg/chain"
)

func TestMineGenesis(t *testing.T) {
	info, err := mineGenesis(context.Background(), "private", "hello", chain.DefaultDifficulty, 1650000000)
	require.NoError(t, err)

	assert.Equal(t, "private", info.ChainID)
	assert.Equal(t, info.Block.ComputeHash(), info.Block.Hash)
	assert.NoError(t, info.Validate())

	enc, err := chain.EncodeGenesis(info)
	require.NoError(t, err)

	dec, err := chain.DecodeGenesis(enc)
	require.NoError(t, err)
	assert.Equal(t, info, dec)
}

func TestGenesisCommand(t *testing.T) {
	out := &bytes.Buffer{}
	genesisCmd.SetOut(out)
	t.Cleanup(func() { genesisCmd.SetOut(nil) })

	require.NoError(t, genesisCmd.Flags().Set("timestamp", "1650000000"))
	require.NoError(t, runGenesis(genesisCmd, nil))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	info, err := chain.DecodeGenesis(lines[1])
	require.NoError(t, err)
	assert.Equal(t, "genesis!", info.Block.Data)
	assert.Equal(t, int64(1650000000), info.Block.Timestamp)
}

func TestIdentityCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "id")

	out := &bytes.Buffer{}
	identityCmd.SetOut(out)
	t.Cleanup(func() { identityCmd.SetOut(nil) })

	require.NoError(t, runIdentity(identityCmd, []string{path}))
	assert.NotEmpty(t, strings.TrimSpace(out.String()))

	//refuses to clobber without --force
	assert.Error(t, runIdentity(identityCmd, []string{path}))
}
