package chain

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrBadPreviousHash        = errors.New("previous hash does not match predecessor")
	ErrInsufficientDifficulty = errors.New("hash does not meet difficulty")
	ErrNonSequentialID        = errors.New("id does not follow predecessor")
	ErrHashMismatch           = errors.New("hash does not match block contents")

	ErrEmptyChain       = errors.New("chain is empty")
	ErrGenesisExists    = errors.New("chain already has a genesis block")
	ErrInvalidGenesis   = errors.New("invalid genesis block")
	ErrConsensusFailure = errors.New("local and remote chains are both invalid")
)

// ValidationError describes why a candidate block was rejected against its
// predecessor. Reason is one of the Err* validation sentinels.
type ValidationError struct {
	Reason        error
	BlockID       uint64
	PredecessorID uint64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("block %d rejected after %d: %s", e.BlockID, e.PredecessorID, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

// RejectionReason extracts the validation sentinel from err, or nil when err
// is not a block rejection.
func RejectionReason(err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Reason
	}

	return nil
}

// ConsensusFailure is returned by ChooseChain when neither candidate chain is
// valid. The local chain should be kept.
type ConsensusFailure struct {
	Local  error
	Remote error
}

func (e *ConsensusFailure) Error() string {
	return fmt.Sprintf("%s (local: %s; remote: %s)", ErrConsensusFailure, e.Local, e.Remote)
}

func (e *ConsensusFailure) Is(target error) bool {
	return target == ErrConsensusFailure
}
