package chain

import (
	"encoding/hex"
	"math"

	"github.com/pkg/errors"
)

type Validator interface {
	IsBlockValid(candidate, predecessor Block) error
	IsChainValid(blocks []Block) error
}

var (
	_ Validator = (*PoWValidator)(nil)
)

// PoWValidator accepts blocks that are correctly linked, sequential and carry
// a proof-of-work hash derived from their own contents.
type PoWValidator struct {
	difficulty uint
}

func NewPoWValidator(difficulty uint) *PoWValidator {
	return &PoWValidator{difficulty: difficulty}
}

// IsBlockValid checks candidate against predecessor. Checks run in a fixed
// order and the first failure is returned as a *ValidationError.
func (v *PoWValidator) IsBlockValid(candidate, predecessor Block) error {
	reject := func(reason error) error {
		return &ValidationError{
			Reason:        reason,
			BlockID:       candidate.ID,
			PredecessorID: predecessor.ID,
		}
	}

	if candidate.PreviousHash != predecessor.Hash {
		return reject(ErrBadPreviousHash)
	}

	digest, err := hex.DecodeString(candidate.Hash)
	if err != nil || !DifficultySatisfied(digest, v.difficulty) {
		return reject(ErrInsufficientDifficulty)
	}

	if predecessor.ID == math.MaxUint64 || candidate.ID != predecessor.ID+1 {
		return reject(ErrNonSequentialID)
	}

	if candidate.ComputeHash() != candidate.Hash {
		return reject(ErrHashMismatch)
	}

	return nil
}

// IsChainValid checks every adjacent pair. The first block has no
// predecessor and is accepted as is.
func (v *PoWValidator) IsChainValid(blocks []Block) error {
	if len(blocks) == 0 {
		return ErrEmptyChain
	}

	for i := 1; i < len(blocks); i++ {
		if err := v.IsBlockValid(blocks[i], blocks[i-1]); err != nil {
			return errors.Wrapf(err, "chain index %d", i)
		}
	}

	return nil
}

func BlockIsValid(v Validator, candidate, predecessor Block) bool {
	return v.IsBlockValid(candidate, predecessor) == nil
}

func ChainIsValid(v Validator, blocks []Block) bool {
	return v.IsChainValid(blocks) == nil
}
