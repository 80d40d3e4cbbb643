package chain

// Chain is an append-only sequence of blocks starting at genesis. It is not
// safe for concurrent use; a single owner is expected to mutate it.
type Chain struct {
	blocks []Block
	index  map[string]uint64
	seen   *seenFilter
}

func New() *Chain {
	return &Chain{
		index: make(map[string]uint64),
		seen:  newSeenFilter(),
	}
}

func (c *Chain) Len() int {
	return len(c.blocks)
}

func (c *Chain) Empty() bool {
	return len(c.blocks) == 0
}

// Tip returns the last block
func (c *Chain) Tip() (Block, bool) {
	if len(c.blocks) == 0 {
		return Block{}, false
	}

	return c.blocks[len(c.blocks)-1], true
}

// Blocks returns a copy of the chain
func (c *Chain) Blocks() []Block {
	out := make([]Block, len(c.blocks))
	copy(out, c.blocks)
	return out
}

func (c *Chain) Get(id uint64) (Block, bool) {
	if id >= uint64(len(c.blocks)) {
		return Block{}, false
	}

	return c.blocks[id], true
}

// Has reports whether a block with the given hash is part of the chain.
func (c *Chain) Has(hash string) bool {
	if !c.seen.mayContain(hash) {
		return false
	}

	_, ok := c.index[hash]
	return ok
}

// AppendGenesis starts the chain with g. It fails if the chain already has
// blocks.
func (c *Chain) AppendGenesis(g Block) error {
	if len(c.blocks) != 0 {
		return ErrGenesisExists
	}

	if g.ID != 0 {
		return ErrInvalidGenesis
	}

	c.push(g)
	return nil
}

// TryAppend appends candidate if it is valid against the tip. On rejection
// the chain is unchanged and the validation error is returned.
func (c *Chain) TryAppend(v Validator, candidate Block) error {
	tip, ok := c.Tip()
	if !ok {
		return ErrEmptyChain
	}

	if err := v.IsBlockValid(candidate, tip); err != nil {
		return err
	}

	c.push(candidate)
	return nil
}

// Replace swaps the whole chain for blocks. Callers are expected to have
// chosen blocks through ChooseChain.
func (c *Chain) Replace(blocks []Block) {
	c.blocks = make([]Block, 0, len(blocks))
	c.index = make(map[string]uint64, len(blocks))
	c.seen.reset()

	for _, b := range blocks {
		c.push(b)
	}
}

func (c *Chain) push(b Block) {
	c.blocks = append(c.blocks, b)
	c.index[b.Hash] = b.ID
	c.seen.add(b.Hash)
}
