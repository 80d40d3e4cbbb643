package config

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/tcfw/minichain/internal/utils/logging"
)

const (
	Cfg_verbose  = "verbose"
	Cfg_log_file = "log.file"
)

var (
	defaults = map[string]interface{}{
		Cfg_verbose:  false,
		Cfg_log_file: "",
	}
)

func init() {
	for k, v := range defaults {
		viper.SetDefault(k, v)
	}
}

func GetConfig() (*Config, error) {
	viper.SetConfigType("yaml")
	viper.SetConfigName("minichain")
	viper.AddConfigPath("/etc/minichain/")
	viper.AddConfigPath("$HOME/.minichain")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("MINICHAIN")
	viper.AutomaticEnv()
	err := viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error
			logging.Entry().Debug("no config found, using defaults")
		} else {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	return build()
}

func build() (*Config, error) {
	var err error
	c := &Config{}

	c.p2p, err = buildP2PConfig()
	if err != nil {
		return nil, errors.Wrap(err, "p2p config")
	}

	c.chain, err = buildChainConfig()
	if err != nil {
		return nil, errors.Wrap(err, "chain config")
	}

	if viper.GetBool(Cfg_verbose) {
		logging.SetLevel(logrus.DebugLevel)
		logging.Entry().WithField("level", "debug").Debug("setting log level")
	}

	logging.SetFile(viper.GetString(Cfg_log_file))

	return c, nil
}

type Config struct {
	p2p   *P2P
	chain *Chain
}

// New assembles a config without going through viper
func New(p2p *P2P, chain *Chain) *Config {
	return &Config{p2p: p2p, chain: chain}
}

func (c *Config) P2P() *P2P {
	return c.p2p
}

func (c *Config) Chain() *Chain {
	return c.chain
}
