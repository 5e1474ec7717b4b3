package parser

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/tx"
	"dex-parser-sol/pkg/utils"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
)

// ParseRpcJSON 解析一笔 jsonParsed 编码的 RPC 交易。
func (p *Parser) ParseRpcJSON(data []byte, opt core.Option) *core.Result {
	view, err := tx.AdaptRpcJSON(data)
	if err != nil {
		return &core.Result{State: false, Msg: err.Error()}
	}
	return p.ParseTransaction(view, opt)
}

// ParseGrpcTx 解析一笔 yellowstone gRPC 订阅推送的编译态交易。
func (p *Parser) ParseGrpcTx(slot uint64, blockTime int64, raw *pb.SubscribeUpdateTransactionInfo, opt core.Option) *core.Result {
	view, err := tx.AdaptGrpcTx(slot, blockTime, raw)
	if err != nil {
		return &core.Result{State: false, Msg: err.Error()}
	}
	return p.ParseTransaction(view, opt)
}

// ParseBlock 解析整个 gRPC 区块：逐笔并行，互不共享状态，结果保持交易顺序。
func (p *Parser) ParseBlock(block *pb.SubscribeUpdateBlock, opt core.Option) []*core.Result {
	if block == nil || len(block.Transactions) == 0 {
		return nil
	}
	slot := block.Slot
	var blockTime int64
	if block.BlockTime != nil {
		blockTime = block.BlockTime.Timestamp
	}

	return utils.ParallelMap(block.Transactions, consts.CpuCount, func(raw *pb.SubscribeUpdateTransactionInfo) *core.Result {
		return p.ParseGrpcTx(slot, blockTime, raw, opt)
	})
}
