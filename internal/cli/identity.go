package cli

import (
	"fmt"
	"os"

	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tcfw/minichain/internal/node"
)

var (
	identityCmd = &cobra.Command{
		Use:   "identity <file>",
		Short: "create a node identity file",
		Args:  cobra.ExactArgs(1),
		RunE:  runIdentity,
	}
)

func init() {
	identityCmd.Flags().BoolP("force", "f", false, "overwrite an existing file")
}

func runIdentity(cmd *cobra.Command, args []string) error {
	path := args[0]
	force, _ := cmd.Flags().GetBool("force")

	if _, err := os.Stat(path); err == nil && !force {
		return errors.Errorf("%s already exists", path)
	}

	if err := node.GenerateIdentity(path); err != nil {
		return err
	}

	priv, err := node.LoadIdentity(path)
	if err != nil {
		return err
	}

	id, err := peer.IDFromPrivateKey(priv)
	if err != nil {
		return errors.Wrap(err, "deriving peer id")
	}

	fmt.Fprintln(cmd.OutOrStdout(), id.String())

	return nil
}
