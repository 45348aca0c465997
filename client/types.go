package client

// Wire types mirroring the node's JSON-RPC responses.

type RecordInfo struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Status    string `json:"status"`
	Sender    string `json:"sender,omitempty"`
	Recipient string `json:"recipient,omitempty"`
	Amount    string `json:"amount,omitempty"`
	Asset     string `json:"asset,omitempty"`
	Action    string `json:"action,omitempty"`
	Location  string `json:"location,omitempty"`
	Actor     string `json:"actor,omitempty"`
}

type BlockInfo struct {
	ID             string       `json:"id"`
	SequenceNumber uint64       `json:"sequence_number"`
	PrevHash       string       `json:"prev_hash"`
	Hash           string       `json:"hash"`
	Timestamp      int64        `json:"timestamp"`
	Status         string       `json:"status"`
	Records        []RecordInfo `json:"records"`
	ApprovedBy     []string     `json:"approved_by"`
	RejectedBy     []string     `json:"rejected_by"`
}

type HealthResponse struct {
	Ok bool `json:"ok"`
}

type RecordResponse struct {
	Record RecordInfo `json:"record"`
}

type ListRecordsResponse struct {
	Records []RecordInfo `json:"records"`
}

type GetChainResponse struct {
	Blocks []*BlockInfo `json:"blocks"`
}

type GetBlockResponse struct {
	Block *BlockInfo `json:"block"`
}

type ValidateBlockResponse struct {
	IsValid bool `json:"is_valid"`
}

type CastVoteResponse struct {
	Message string     `json:"message"`
	Block   *BlockInfo `json:"block"`
}

type ValidateChainResponse struct {
	IsValid bool         `json:"is_valid"`
	Chain   []*BlockInfo `json:"chain"`
}
