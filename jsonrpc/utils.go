package jsonrpc

import (
	stderrors "errors"

	"github.com/creachadair/jrpc2"
)

// JSON-RPC method name constants
const (
	// Chain methods
	MethodChainGetChain        = "chain.getchain"
	MethodChainGetBlock        = "chain.getblock"
	MethodChainGetWaitingBlock = "chain.getwaitingblock"
	MethodChainActivateBlock   = "chain.activateblock"
	MethodChainValidateBlock   = "chain.validateblock"
	MethodChainCastVote        = "chain.castvote"
	MethodChainValidateChain   = "chain.validatechain"

	// Record methods
	MethodRecordSubmitTransaction = "record.submittransaction"
	MethodRecordSubmitEvent       = "record.submitevent"
	MethodRecordApprove           = "record.approve"
	MethodRecordGet               = "record.get"
	MethodRecordList              = "record.list"

	// Health methods
	MethodHealthCheck = "health.check"
)

// Server-defined jrpc2 error codes
const (
	codeBadRequest jrpc2.Code = -32001
	codeNotFound   jrpc2.Code = -32002
	codeConflict   jrpc2.Code = -32003
	codeInternal   jrpc2.Code = -32004
)

// stdAs wraps errors.As so the name does not collide with the chain errors
// package imported under its own name.
func stdAs(err error, target interface{}) bool {
	return stderrors.As(err, target)
}
