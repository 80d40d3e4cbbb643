package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tcfw/minichain/internal/config"
	"github.com/tcfw/minichain/internal/console"
	"github.com/tcfw/minichain/internal/node"
)

var (
	rootCmd = &cobra.Command{
		Use:   "minichain",
		Short: "run a proof-of-work chain node with an interactive console",
		Long: `Runs a node that discovers peers, syncs the longest valid chain and mines
blocks on request. Console commands:

  ls p             list discovered peers
  ls c             print the local chain
  create b <data>  mine and broadcast a block`,
		RunE: run,
	}
)

func Execute() error {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase verbosity")
	viper.BindPFlag(config.Cfg_verbose, rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.Flags().String("log-file", "", "also write logs to this file")
	viper.BindPFlag(config.Cfg_log_file, rootCmd.Flags().Lookup("log-file"))

	rootCmd.Flags().StringSlice("listen", nil, "multiaddrs to listen on")
	viper.BindPFlag(config.Cfg_p2p_listeningAddrs, rootCmd.Flags().Lookup("listen"))

	rootCmd.Flags().StringSlice("bootstrap", nil, "peers to connect to on start")
	viper.BindPFlag(config.Cfg_p2p_bootstrapPeers, rootCmd.Flags().Lookup("bootstrap"))

	rootCmd.Flags().String("identity", "", "identity file; empty uses a new key each run")
	viper.BindPFlag(config.Cfg_p2p_identityFile, rootCmd.Flags().Lookup("identity"))

	rootCmd.Flags().Uint("difficulty", 0, "leading zero bits required of block hashes")
	viper.BindPFlag(config.Cfg_chain_difficulty, rootCmd.Flags().Lookup("difficulty"))

	regCommands()

	return rootCmd.Execute()
}

func run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	node, err := node.NewNode(ctx)
	if err != nil {
		return errors.Wrap(err, "initing node")
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- node.ListenAndServe(ctx, console.Lines(ctx, os.Stdin))
	}()

	select {
	case err := <-errCh:
		node.Stop()
		return err
	case <-waitExit(ctx):
		cancel()
		<-errCh
		return node.Stop()
	}
}

func waitExit(ctx context.Context) <-chan os.Signal {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	return sigs
}
