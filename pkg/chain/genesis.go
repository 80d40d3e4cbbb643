package chain

import (
	"encoding/base64"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	GenesisPreviousHash = "Genesis"
)

// genesis is never mined or validated; only its hash matters to successors.
var genesis = Block{
	ID:           0,
	Hash:         "0000f816a87f806bb0073dcf026a64fb40c946b5abee2573702828694d5b4c43",
	PreviousHash: GenesisPreviousHash,
	Timestamp:    1640995200,
	Data:         "genesis!",
	Nonce:        2836,
}

func Genesis() Block {
	return genesis
}

// GenesisInfo overrides the built in genesis block for private networks
type GenesisInfo struct {
	ChainID string `msgpack:"c"`
	Block   Block  `msgpack:"b"`
}

func (g *GenesisInfo) Validate() error {
	if g.Block.ID != 0 {
		return errors.Wrap(ErrInvalidGenesis, "id must be 0")
	}
	if g.Block.PreviousHash != GenesisPreviousHash {
		return errors.Wrapf(ErrInvalidGenesis, "previous hash must be %q", GenesisPreviousHash)
	}
	if g.Block.Hash == "" {
		return errors.Wrap(ErrInvalidGenesis, "missing hash")
	}

	return nil
}

// EncodeGenesis renders info as base64 msgpack, suitable for the
// chain.genesis config value.
func EncodeGenesis(info *GenesisInfo) (string, error) {
	if err := info.Validate(); err != nil {
		return "", err
	}

	b, err := msgpack.Marshal(info)
	if err != nil {
		return "", errors.Wrap(err, "marshaling genesis info")
	}

	return base64.StdEncoding.EncodeToString(b), nil
}

func DecodeGenesis(s string) (*GenesisInfo, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "b64 decoding genesis config")
	}

	info := &GenesisInfo{}
	if err := msgpack.Unmarshal(raw, info); err != nil {
		return nil, errors.Wrap(err, "unmarshaling genesis info")
	}

	if err := info.Validate(); err != nil {
		return nil, err
	}

	return info, nil
}
