package config

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/tcfw/minichain/pkg/chain"
)

type Chain struct {
	Difficulty       uint
	ProgressInterval uint64
	InitDelay        time.Duration

	// Genesis is the built in genesis block unless overridden
	Genesis chain.GenesisInfo
}

const (
	Cfg_chain_difficulty       = "chain.difficulty"
	Cfg_chain_progressInterval = "chain.progressInterval"
	Cfg_chain_initDelay        = "chain.initDelay"
	Cfg_chain_genesisInfo      = "chain.genesis"

	maxDifficulty = 256
)

var (
	chainDefaults = map[string]interface{}{
		Cfg_chain_difficulty:       chain.DefaultDifficulty,
		Cfg_chain_progressInterval: chain.DefaultProgressInterval,
		Cfg_chain_initDelay:        time.Second,
		Cfg_chain_genesisInfo:      "",
	}
)

func init() {
	for k, v := range chainDefaults {
		viper.SetDefault(k, v)
	}
}

func buildChainConfig() (*Chain, error) {
	c := &Chain{
		Difficulty:       viper.GetUint(Cfg_chain_difficulty),
		ProgressInterval: viper.GetUint64(Cfg_chain_progressInterval),
		InitDelay:        viper.GetDuration(Cfg_chain_initDelay),
		Genesis:          chain.GenesisInfo{ChainID: "minichain", Block: chain.Genesis()},
	}

	if c.Difficulty > maxDifficulty {
		return nil, errors.Errorf("difficulty %d exceeds digest size", c.Difficulty)
	}

	gcfg := viper.GetString(Cfg_chain_genesisInfo)
	if gcfg == "" {
		return c, nil
	}

	info, err := chain.DecodeGenesis(gcfg)
	if err != nil {
		return nil, errors.Wrap(err, "genesis override")
	}
	c.Genesis = *info

	return c, nil
}
