package stream

import (
	"context"
	"sort"
	"time"

	"dex-parser-sol/pkg/logger"

	"github.com/blocto/solana-go-sdk/rpc"
)

// slotGap 推送流中观测到的 slot 空洞，闭区间 [From, To]。
type slotGap struct {
	From   uint64
	To     uint64
	SeenAt time.Time
}

// SlotChecker 校验推送流中的 slot 空洞：可能是链上空块，也可能是漏推。
// 延迟一段时间后通过 RPC getBlocks 区分两者，漏推的 slot 打错误日志供人工补扫。
type SlotChecker struct {
	client *rpc.RpcClient
	gapCh  chan slotGap
	ctx    context.Context
	cancel context.CancelFunc
}

func NewSlotChecker(endpoint string) *SlotChecker {
	ctx, cancel := context.WithCancel(context.Background())
	client := rpc.NewRpcClient(endpoint)
	return &SlotChecker{
		client: &client,
		gapCh:  make(chan slotGap, 300),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *SlotChecker) Start() {
	go s.run()
}

func (s *SlotChecker) Stop() {
	s.cancel()
}

// Submit 提交一个待校验的 slot 空洞，闭区间 [from, to]。
func (s *SlotChecker) Submit(from, to uint64) {
	if from > to {
		logger.Warnf("[SlotChecker] invalid slot range: from (%d) > to (%d)", from, to)
		return
	}
	select {
	case s.gapCh <- slotGap{From: from, To: to, SeenAt: time.Now()}:
	default:
		logger.Warnf("[SlotChecker] gap channel full, dropped: [%d, %d]", from, to)
	}
}

func (s *SlotChecker) run() {
	// 区块确认有延迟，提交后等一段时间再查，避免误报
	const delayBeforeCheck = 30 * time.Second
	const maxPendingGaps = 200

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	gaps := make([]slotGap, 0, 32)

	for {
		select {
		case <-s.ctx.Done():
			logger.Infof("[SlotChecker] stopped")
			return

		case g := <-s.gapCh:
			if len(gaps) >= maxPendingGaps {
				logger.Warnf("[SlotChecker] too many pending gaps (%d), drop [%d, %d]", len(gaps), g.From, g.To)
			} else {
				gaps = append(gaps, g)
			}

		case <-ticker.C:
			if len(gaps) == 0 {
				continue
			}

			now := time.Now()
			ready := make([]slotGap, 0, len(gaps))
			pending := gaps[:0]
			for _, g := range gaps {
				if now.Sub(g.SeenAt) >= delayBeforeCheck {
					ready = append(ready, g)
				} else {
					pending = append(pending, g)
				}
			}
			gaps = pending

			if len(ready) > 0 {
				// 串行查询，避免 goroutine 累积
				s.checkGaps(mergeGaps(ready))
			}
		}
	}
}

func (s *SlotChecker) checkGaps(gaps []slotGap) {
	for _, g := range gaps {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		produced, err := s.getBlocksWithRetry(g.From, g.To, 3)
		if err != nil {
			logger.Warnf("[SlotChecker] getBlocks [%d, %d] failed after retries: %v", g.From, g.To, err)
			continue
		}

		producedSet := make(map[uint64]struct{}, len(produced))
		for _, slot := range produced {
			producedSet[slot] = struct{}{}
		}
		for slot := g.From; slot <= g.To; slot++ {
			if _, ok := producedSet[slot]; ok {
				logger.Errorf("[SlotChecker] slot %d 有区块但未收到推送，疑似漏扫", slot)
			} else {
				logger.Infof("[SlotChecker] slot %d is confirmed empty", slot)
			}
		}
	}
}

func (s *SlotChecker) getBlocksWithRetry(from, to uint64, maxRetries int) ([]uint64, error) {
	var attempt int
	for {
		select {
		case <-s.ctx.Done():
			return nil, context.Canceled
		default:
		}

		ctx, cancel := context.WithTimeout(s.ctx, 6*time.Second)
		blocks, err := s.client.GetBlocks(ctx, from, to)
		cancel()

		if err == nil {
			return blocks.Result, nil
		}

		attempt++
		if attempt >= maxRetries {
			return nil, err
		}
		time.Sleep(300 * time.Millisecond)
	}
}

// mergeGaps 排序并合并相邻/重叠的空洞，单段长度不超过 maxGapSpan（控制单次 RPC 规模）。
func mergeGaps(gaps []slotGap) []slotGap {
	if len(gaps) == 0 {
		return nil
	}

	const maxGapSpan = 5000

	sort.Slice(gaps, func(i, j int) bool {
		if gaps[i].From == gaps[j].From {
			return gaps[i].To < gaps[j].To
		}
		return gaps[i].From < gaps[j].From
	})

	merged := make([]slotGap, 1, len(gaps))
	merged[0] = gaps[0]
	for _, g := range gaps[1:] {
		last := &merged[len(merged)-1]
		if g.From <= last.To+1 && g.To-last.From < maxGapSpan {
			if g.To > last.To {
				last.To = g.To
			}
		} else {
			merged = append(merged, g)
		}
	}

	// 超长段拆分
	out := make([]slotGap, 0, len(merged))
	for _, g := range merged {
		for g.To-g.From+1 > maxGapSpan {
			out = append(out, slotGap{From: g.From, To: g.From + maxGapSpan - 1, SeenAt: g.SeenAt})
			g.From += maxGapSpan
		}
		out = append(out, g)
	}
	return out
}
