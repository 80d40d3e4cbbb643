package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tcfw/minichain/internal/utils/logging"
	"github.com/tcfw/minichain/pkg/chain"
)

var (
	genesisCmd = &cobra.Command{
		Use:   "genesis",
		Short: "mine a genesis block for a private network",
		Long:  "Mines a genesis block and prints it as a base64 value for the chain.genesis config key",
		RunE:  runGenesis,
	}
)

func init() {
	genesisCmd.Flags().String("chain-id", "minichain", "network name stored alongside the block")
	genesisCmd.Flags().String("data", "genesis!", "genesis block data")
	genesisCmd.Flags().Uint("difficulty", chain.DefaultDifficulty, "leading zero bits")
	genesisCmd.Flags().Int64("timestamp", 0, "unix timestamp; 0 uses the current time")
	genesisCmd.Flags().Duration("timeout", 5*time.Minute, "give up mining after")
}

func runGenesis(cmd *cobra.Command, args []string) error {
	chainID, _ := cmd.Flags().GetString("chain-id")
	data, _ := cmd.Flags().GetString("data")
	difficulty, _ := cmd.Flags().GetUint("difficulty")
	ts, _ := cmd.Flags().GetInt64("timestamp")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	if ts == 0 {
		ts = time.Now().Unix()
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	info, err := mineGenesis(ctx, chainID, data, difficulty, ts)
	if err != nil {
		return err
	}

	b64, err := chain.EncodeGenesis(info)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Genesis Config:\n%s\n", b64)

	return nil
}

func mineGenesis(ctx context.Context, chainID, data string, difficulty uint, ts int64) (*chain.GenesisInfo, error) {
	m := chain.NewMiner(difficulty, chain.WithMinerLogger(logging.Component("miner")))
	data = chain.ValidData(data)

	nonce, hash, err := m.Mine(ctx, 0, ts, chain.GenesisPreviousHash, data)
	if err != nil {
		return nil, errors.Wrap(err, "mining genesis")
	}

	return &chain.GenesisInfo{
		ChainID: chainID,
		Block: chain.Block{
			ID:           0,
			Hash:         hash,
			PreviousHash: chain.GenesisPreviousHash,
			Timestamp:    ts,
			Data:         data,
			Nonce:        nonce,
		},
	}, nil
}
