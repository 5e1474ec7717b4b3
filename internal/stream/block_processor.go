package stream

import (
	"context"
	"errors"
	"time"

	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/mq"
	"dex-parser-sol/internal/progress"
	"dex-parser-sol/internal/svc"
	"dex-parser-sol/pkg/logger"
	"dex-parser-sol/pkg/utils"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
)

// BlockProcessor 消费 blockChan，解析区块内全部交易并把结果推送到 Kafka。
type BlockProcessor struct {
	sc          *svc.ServiceContext
	blockChan   chan *pb.SubscribeUpdateBlock
	opt         core.Option
	slotChecker *SlotChecker // 可为 nil，此时不做空洞校验
	lastSlot    uint64
	ctx         context.Context
	cancel      func(err error)
}

func NewBlockProcessor(sc *svc.ServiceContext, blockChan chan *pb.SubscribeUpdateBlock, slotChecker *SlotChecker) *BlockProcessor {
	ctx, cancel := context.WithCancelCause(context.Background())
	return &BlockProcessor{
		sc:          sc,
		blockChan:   blockChan,
		opt:         sc.Config.ParserConf.ToOption(),
		slotChecker: slotChecker,
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (p *BlockProcessor) Start() {
	for {
		select {
		case <-p.ctx.Done():
			return // 退出
		case block := <-p.blockChan:
			p.procBlock(block)
			if len(p.blockChan) > 10 {
				logger.Debugf("block chan len:%v", len(p.blockChan))
			}
		}
	}
}

func (p *BlockProcessor) Stop() {
	p.cancel(errors.New("service stop"))
}

func (p *BlockProcessor) procBlock(block *pb.SubscribeUpdateBlock) {
	startTime := time.Now()
	defer func() {
		logger.Infof("区块处理总耗时: %v, slot: %d", time.Since(startTime), block.Slot)
	}()

	// 推送流出现 slot 空洞时交给 SlotChecker 判定空块还是漏扫
	if p.slotChecker != nil && p.lastSlot > 0 && block.Slot > p.lastSlot+1 {
		p.slotChecker.Submit(p.lastSlot+1, block.Slot-1)
	}
	if block.Slot > p.lastSlot {
		p.lastSlot = block.Slot
	}

	// 重连后服务端会从最近 slot 重放，已处理的直接跳过
	status, err := p.sc.Progress.Status(p.ctx, block.Slot)
	if err != nil {
		logger.Warnf("查询 slot 状态失败: slot=%d, err=%v", block.Slot, err)
	} else if status == progress.SlotProcessed {
		logger.Debugf("slot 已处理，跳过: %d", block.Slot)
		return
	}

	// 1. 过滤合法交易
	validTxs := make([]*pb.SubscribeUpdateTransactionInfo, 0, len(block.Transactions))
	for _, tx := range block.Transactions {
		if IsValidGrpcTx(tx) {
			validTxs = append(validTxs, tx)
		}
	}

	var blockTime int64
	if block.BlockTime != nil {
		blockTime = block.BlockTime.Timestamp
	}

	// 2. 并发解析
	parseStart := time.Now()
	results := utils.ParallelMap(validTxs, consts.CpuCount+2,
		func(tx *pb.SubscribeUpdateTransactionInfo) *core.Result {
			return p.sc.Parser.ParseGrpcTx(block.Slot, blockTime, tx, p.opt)
		})
	logger.Infof("交易解析耗时: %v", time.Since(parseStart))

	totalTrades, totalLiquidities := 0, 0
	for _, result := range results {
		totalTrades += len(result.Trades)
		totalLiquidities += len(result.Liquidities)
	}
	logger.Infof("总tx数量: %v, 有效tx数量: %v, 交易事件: %v, 流动性事件: %v",
		len(block.Transactions), len(validTxs), totalTrades, totalLiquidities)

	// 3. 推送 Kafka 并记录进度
	kafkaConf := p.sc.Config.KafkaConf
	jobs := mq.BuildResultJobs(kafkaConf.Topic, uint32(kafkaConf.Partitions), results)
	if len(jobs) == 0 {
		p.markProcessed(block.Slot)
		return
	}

	if err := p.sc.Progress.MarkPending(p.ctx, block.Slot); err != nil {
		logger.Warnf("标记 slot pending 失败: slot=%d, err=%v", block.Slot, err)
	}

	sendCtx, cancel := context.WithTimeout(p.ctx, time.Duration(kafkaConf.SendTimeoutMs)*time.Millisecond)
	defer cancel()
	ok, failed := mq.SendKafkaJobs(sendCtx, p.sc.Producer, jobs,
		time.Duration(kafkaConf.SendTimeoutMs)*time.Millisecond)
	if len(failed) > 0 {
		logger.Errorf("slot %d 发送失败 %d 条（成功 %d 条），保留 pending 待重放",
			block.Slot, len(failed), len(ok))
		return
	}

	p.markProcessed(block.Slot)
}

func (p *BlockProcessor) markProcessed(slot uint64) {
	if err := p.sc.Progress.MarkProcessed(p.ctx, slot); err != nil {
		logger.Warnf("标记 slot processed 失败: slot=%d, err=%v", slot, err)
	}
}

func IsValidGrpcTx(tx *pb.SubscribeUpdateTransactionInfo) bool {
	if tx == nil || // - nil transaction info
		tx.Transaction == nil || // - missing Transaction field
		tx.Transaction.Message == nil || // - missing Message field in transaction
		len(tx.Transaction.Signatures) == 0 || // - missing transaction signature
		len(tx.Transaction.Signatures[0]) != 64 || // - invalid transaction signature length
		tx.IsVote || // - vote transaction skipped
		tx.Meta == nil || // - missing transaction meta data
		tx.Meta.Err != nil { // - transaction execution failed
		return false
	}
	return true
}
