package client

import (
	"context"
	"encoding/hex"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/jhttp"

	"provchain/jsonrpc"
)

// Config holds connection settings for a chain node.
type Config struct {
	Endpoint string // e.g. http://localhost:8645
}

// Client is a JSON-RPC client for a chain node.
type Client struct {
	cfg Config
	ch  *jhttp.Channel
	cli *jrpc2.Client
}

func NewClient(cfg Config) *Client {
	ch := jhttp.NewChannel(cfg.Endpoint, nil)
	return &Client{
		cfg: cfg,
		ch:  ch,
		cli: jrpc2.NewClient(ch, nil),
	}
}

func (c *Client) Close() error {
	return c.cli.Close()
}

func (c *Client) CheckHealth(ctx context.Context) (bool, error) {
	var res HealthResponse
	if err := c.cli.CallResult(ctx, jsonrpc.MethodHealthCheck, nil, &res); err != nil {
		return false, err
	}
	return res.Ok, nil
}

func (c *Client) SubmitTransaction(ctx context.Context, sender, recipient, amount string) (*RecordInfo, error) {
	params := map[string]string{"sender": sender, "recipient": recipient, "amount": amount}
	var res RecordResponse
	if err := c.cli.CallResult(ctx, jsonrpc.MethodRecordSubmitTransaction, params, &res); err != nil {
		return nil, err
	}
	return &res.Record, nil
}

func (c *Client) SubmitEvent(ctx context.Context, asset, action, location, actor string) (*RecordInfo, error) {
	params := map[string]string{"asset": asset, "action": action, "location": location, "actor": actor}
	var res RecordResponse
	if err := c.cli.CallResult(ctx, jsonrpc.MethodRecordSubmitEvent, params, &res); err != nil {
		return nil, err
	}
	return &res.Record, nil
}

func (c *Client) ApproveRecord(ctx context.Context, recordID string) (*RecordInfo, error) {
	var res RecordResponse
	if err := c.cli.CallResult(ctx, jsonrpc.MethodRecordApprove, map[string]string{"record_id": recordID}, &res); err != nil {
		return nil, err
	}
	return &res.Record, nil
}

func (c *Client) GetRecord(ctx context.Context, recordID string) (*RecordInfo, error) {
	var res RecordResponse
	if err := c.cli.CallResult(ctx, jsonrpc.MethodRecordGet, map[string]string{"record_id": recordID}, &res); err != nil {
		return nil, err
	}
	return &res.Record, nil
}

func (c *Client) ListRecords(ctx context.Context, status string) ([]RecordInfo, error) {
	var res ListRecordsResponse
	if err := c.cli.CallResult(ctx, jsonrpc.MethodRecordList, map[string]string{"status": status}, &res); err != nil {
		return nil, err
	}
	return res.Records, nil
}

func (c *Client) GetChain(ctx context.Context) ([]*BlockInfo, error) {
	var res GetChainResponse
	if err := c.cli.CallResult(ctx, jsonrpc.MethodChainGetChain, nil, &res); err != nil {
		return nil, err
	}
	return res.Blocks, nil
}

// GetBlock accepts either a sequence number or a block ID.
func (c *Client) GetBlock(ctx context.Context, sequenceOrID string) (*BlockInfo, error) {
	var res GetBlockResponse
	if err := c.cli.CallResult(ctx, jsonrpc.MethodChainGetBlock, map[string]string{"block": sequenceOrID}, &res); err != nil {
		return nil, err
	}
	return res.Block, nil
}

func (c *Client) GetWaitingBlock(ctx context.Context) (*BlockInfo, error) {
	var res GetBlockResponse
	if err := c.cli.CallResult(ctx, jsonrpc.MethodChainGetWaitingBlock, nil, &res); err != nil {
		return nil, err
	}
	return res.Block, nil
}

func (c *Client) ActivateBlock(ctx context.Context, blockID string) (*BlockInfo, error) {
	var res GetBlockResponse
	if err := c.cli.CallResult(ctx, jsonrpc.MethodChainActivateBlock, map[string]string{"block_id": blockID}, &res); err != nil {
		return nil, err
	}
	return res.Block, nil
}

func (c *Client) ValidateBlock(ctx context.Context, sequenceOrID string) (bool, error) {
	var res ValidateBlockResponse
	if err := c.cli.CallResult(ctx, jsonrpc.MethodChainValidateBlock, map[string]string{"block": sequenceOrID}, &res); err != nil {
		return false, err
	}
	return res.IsValid, nil
}

// CastVote sends a vote; signature may be nil for unsigned votes.
func (c *Client) CastVote(ctx context.Context, blockID, voterID string, approve bool, signature []byte) (*CastVoteResponse, error) {
	params := map[string]interface{}{
		"block_id": blockID,
		"voter_id": voterID,
		"approve":  approve,
	}
	if len(signature) > 0 {
		params["signature"] = hex.EncodeToString(signature)
	}
	var res CastVoteResponse
	if err := c.cli.CallResult(ctx, jsonrpc.MethodChainCastVote, params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ValidateChain(ctx context.Context) (*ValidateChainResponse, error) {
	var res ValidateChainResponse
	if err := c.cli.CallResult(ctx, jsonrpc.MethodChainValidateChain, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
