package jsonrpc

import (
	"context"
	"encoding/hex"
	"net"
	"net/http"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"

	"provchain/block"
	"provchain/consensus"
	"provchain/errors"
	"provchain/exception"
	"provchain/interfaces"
	"provchain/logx"
	"provchain/ratelimit"
	"provchain/types"
)

// --- Error mapping ---

func toJRPC2Error(err error) error {
	if err == nil {
		return nil
	}
	code := errors.CodeOf(err)
	var rpcCode jrpc2.Code
	switch {
	case errors.IsNotFound(err):
		rpcCode = codeNotFound
	case errors.IsConflict(err):
		rpcCode = codeConflict
	case code == errors.ErrCodeInternal:
		rpcCode = codeInternal
	default:
		rpcCode = codeBadRequest
	}
	var chainErr *errors.ChainError
	if stdAs(err, &chainErr) {
		return jrpc2.Errorf(rpcCode, "%s", chainErr.Message).WithData(chainErr)
	}
	return jrpc2.Errorf(rpcCode, "%s", err.Error())
}

// --- Params/Results mirroring the service types ---

type recordInfo struct {
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

type blockInfo struct {
	ID             string       `json:"id"`
	SequenceNumber uint64       `json:"sequence_number"`
	PrevHash       string       `json:"prev_hash"`
	Hash           string       `json:"hash"`
	Timestamp      int64        `json:"timestamp"`
	Status         string       `json:"status"`
	Records        []recordInfo `json:"records"`
	ApprovedBy     []string     `json:"approved_by"`
	RejectedBy     []string     `json:"rejected_by"`
}

func toRecordInfo(r *types.Record) recordInfo {
	return recordInfo{
		ID:        r.ID,
		Kind:      string(r.Kind),
		Status:    string(r.Status),
		Sender:    r.Sender,
		Recipient: r.Recipient,
		Amount:    r.Amount,
		Asset:     r.Asset,
		Action:    r.Action,
		Location:  r.Location,
		Actor:     r.Actor,
	}
}

func toBlockInfo(b *block.Block) *blockInfo {
	if b == nil {
		return nil
	}
	records := make([]recordInfo, 0, len(b.Records))
	for i := range b.Records {
		records = append(records, toRecordInfo(&b.Records[i]))
	}
	return &blockInfo{
		ID:             b.ID,
		SequenceNumber: b.SequenceNumber,
		PrevHash:       b.PrevHash,
		Hash:           b.Hash,
		Timestamp:      b.Timestamp.UnixNano(),
		Status:         string(b.Status),
		Records:        records,
		ApprovedBy:     b.ApprovedBy,
		RejectedBy:     b.RejectedBy,
	}
}

func toBlockInfos(blocks []*block.Block) []*blockInfo {
	out := make([]*blockInfo, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, toBlockInfo(b))
	}
	return out
}

type getChainResponse struct {
	Blocks []*blockInfo `json:"blocks"`
}

type getBlockParams struct {
	Block string `json:"block"` // sequence number or block ID
}

type getBlockResponse struct {
	Block *blockInfo `json:"block"`
}

type activateBlockParams struct {
	BlockID string `json:"block_id"`
}

type validateBlockParams struct {
	Block string `json:"block"`
}

type validateBlockResponse struct {
	IsValid bool `json:"is_valid"`
}

type castVoteParams struct {
	BlockID   string `json:"block_id"`
	VoterID   string `json:"voter_id"`
	Approve   bool   `json:"approve"`
	Timestamp int64  `json:"timestamp,omitempty"`
	Signature string `json:"signature,omitempty"` // hex ed25519 signature
}

type castVoteResponse struct {
	Message string     `json:"message"`
	Block   *blockInfo `json:"block"`
}

type validateChainResponse struct {
	IsValid bool         `json:"is_valid"`
	Chain   []*blockInfo `json:"chain"`
}

type submitTransactionParams struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

type submitEventParams struct {
	Asset    string `json:"asset"`
	Action   string `json:"action"`
	Location string `json:"location"`
	Actor    string `json:"actor"`
}

type recordParams struct {
	RecordID string `json:"record_id"`
}

type recordResponse struct {
	Record recordInfo `json:"record"`
}

type listRecordsParams struct {
	Status string `json:"status"`
}

type listRecordsResponse struct {
	Records []recordInfo `json:"records"`
}

type healthResponse struct {
	Ok bool `json:"ok"`
}

// --- Server ---

type Server struct {
	addr      string
	chainSvc  interfaces.ChainService
	recordSvc interfaces.RecordService
	limiter   *ratelimit.Limiter
}

func NewServer(addr string, chainSvc interfaces.ChainService, recordSvc interfaces.RecordService) *Server {
	return &Server{
		addr:      addr,
		chainSvc:  chainSvc,
		recordSvc: recordSvc,
		limiter:   ratelimit.NewLimiter(nil),
	}
}

func (s *Server) Start() {
	methods := s.buildMethodMap()
	jh := jhttp.NewBridge(methods, &jhttp.BridgeOptions{Server: &jrpc2.ServerOptions{}})

	mux := http.NewServeMux()
	mux.Handle("/", s.withRateLimit(jh))

	logx.Info("RPC", "listening on ", s.addr)
	exception.SafeGoWithPanic("jsonrpc", func() {
		if err := http.ListenAndServe(s.addr, mux); err != nil {
			logx.Error("RPC", "server stopped: ", err)
		}
	})
}

// withRateLimit throttles callers by remote host.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if !s.limiter.Allow(host) {
			logx.Warn("RPC", "rate limit exceeded for ", host)
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Build jrpc2 method map
func (s *Server) buildMethodMap() handler.Map {
	return handler.Map{
		MethodChainGetChain: handler.New(func(ctx context.Context) (*getChainResponse, error) {
			blocks, err := s.chainSvc.GetChain(ctx)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &getChainResponse{Blocks: toBlockInfos(blocks)}, nil
		}),
		MethodChainGetBlock: handler.New(func(ctx context.Context, p getBlockParams) (*getBlockResponse, error) {
			b, err := s.chainSvc.GetBlock(ctx, p.Block)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &getBlockResponse{Block: toBlockInfo(b)}, nil
		}),
		MethodChainGetWaitingBlock: handler.New(func(ctx context.Context) (*getBlockResponse, error) {
			b, err := s.chainSvc.GetWaitingBlock(ctx)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &getBlockResponse{Block: toBlockInfo(b)}, nil
		}),
		MethodChainActivateBlock: handler.New(func(ctx context.Context, p activateBlockParams) (*getBlockResponse, error) {
			b, err := s.chainSvc.ActivateBlock(ctx, p.BlockID)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &getBlockResponse{Block: toBlockInfo(b)}, nil
		}),
		MethodChainValidateBlock: handler.New(func(ctx context.Context, p validateBlockParams) (*validateBlockResponse, error) {
			valid, err := s.chainSvc.ValidateBlock(ctx, p.Block)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &validateBlockResponse{IsValid: valid}, nil
		}),
		MethodChainCastVote: handler.New(func(ctx context.Context, p castVoteParams) (*castVoteResponse, error) {
			vote := &consensus.Vote{
				BlockID:   p.BlockID,
				VoterID:   p.VoterID,
				Approve:   p.Approve,
				Timestamp: p.Timestamp,
			}
			if p.Signature != "" {
				sig, err := hex.DecodeString(p.Signature)
				if err != nil {
					return nil, toJRPC2Error(errors.NewError(errors.ErrCodeInvalidSignature, errors.ErrMsgInvalidSignature))
				}
				vote.Signature = sig
			}
			res, err := s.chainSvc.CastVote(ctx, vote)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &castVoteResponse{Message: res.Message, Block: toBlockInfo(res.Block)}, nil
		}),
		MethodChainValidateChain: handler.New(func(ctx context.Context) (*validateChainResponse, error) {
			audit, err := s.chainSvc.ValidateChain(ctx)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &validateChainResponse{IsValid: audit.IsValid, Chain: toBlockInfos(audit.Chain)}, nil
		}),
		MethodRecordSubmitTransaction: handler.New(func(ctx context.Context, p submitTransactionParams) (*recordResponse, error) {
			r, err := s.recordSvc.SubmitTransaction(ctx, p.Sender, p.Recipient, p.Amount)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &recordResponse{Record: toRecordInfo(r)}, nil
		}),
		MethodRecordSubmitEvent: handler.New(func(ctx context.Context, p submitEventParams) (*recordResponse, error) {
			r, err := s.recordSvc.SubmitEvent(ctx, p.Asset, p.Action, p.Location, p.Actor)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &recordResponse{Record: toRecordInfo(r)}, nil
		}),
		MethodRecordApprove: handler.New(func(ctx context.Context, p recordParams) (*recordResponse, error) {
			r, err := s.recordSvc.ApproveRecord(ctx, p.RecordID)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &recordResponse{Record: toRecordInfo(r)}, nil
		}),
		MethodRecordGet: handler.New(func(ctx context.Context, p recordParams) (*recordResponse, error) {
			r, err := s.recordSvc.GetRecord(ctx, p.RecordID)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &recordResponse{Record: toRecordInfo(r)}, nil
		}),
		MethodRecordList: handler.New(func(ctx context.Context, p listRecordsParams) (*listRecordsResponse, error) {
			list, err := s.recordSvc.ListRecords(ctx, types.RecordStatus(p.Status))
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			records := make([]recordInfo, 0, len(list))
			for _, r := range list {
				records = append(records, toRecordInfo(r))
			}
			return &listRecordsResponse{Records: records}, nil
		}),
		MethodHealthCheck: handler.New(func(ctx context.Context) (*healthResponse, error) {
			return &healthResponse{Ok: true}, nil
		}),
	}
}
