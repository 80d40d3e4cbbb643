package chain

// Choice is the outcome of fork choice. Remote is set when the remote chain
// won and the local chain should be replaced.
type Choice struct {
	Blocks []Block
	Remote bool
}

// ChooseChain picks between the local and remote chains. When both are valid
// the strictly longer one wins and ties keep local. When only one is valid it
// wins. When neither is, a *ConsensusFailure is returned.
func ChooseChain(v Validator, local, remote []Block) (*Choice, error) {
	localErr := v.IsChainValid(local)
	remoteErr := v.IsChainValid(remote)

	switch {
	case localErr == nil && remoteErr == nil:
		if len(remote) > len(local) {
			return &Choice{Blocks: remote, Remote: true}, nil
		}
		return &Choice{Blocks: local}, nil
	case localErr == nil:
		return &Choice{Blocks: local}, nil
	case remoteErr == nil:
		return &Choice{Blocks: remote, Remote: true}, nil
	default:
		return nil, &ConsensusFailure{Local: localErr, Remote: remoteErr}
	}
}
