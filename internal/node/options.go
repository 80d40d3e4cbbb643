package node

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/tcfw/minichain/internal/config"
)

type NodeOption func(*Node) error

func WithLogger(l *logrus.Entry) NodeOption {
	return func(n *Node) error {
		n.logger = l
		return nil
	}
}

// WithConfig skips loading config from viper
func WithConfig(c *config.Config) NodeOption {
	return func(n *Node) error {
		n.cfg = c
		return nil
	}
}

// WithOutput sets where console command output is written
func WithOutput(w io.Writer) NodeOption {
	return func(n *Node) error {
		n.out = w
		return nil
	}
}
