package store

// Declare database key prefix for objects
const (
	PrefixRecord = "rec:"

	PrefixBlock     = "blk:"
	PrefixBlockSeq  = "blk_seq:"
	PrefixBlockMeta = "blk_meta:"

	BlockMetaKeyLatestInChain = "latest_in_chain"
	BlockMetaKeyStaging       = "staging"
)
