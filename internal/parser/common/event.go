package common

import (
	"errors"

	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/decoder"
)

// ErrEventInstructionNotFound 自描述事件解析器找不到伴随事件指令，该候选事件被丢弃。
var ErrEventInstructionNotFound = errors.New("companion event instruction not found")

// FindEvent 定位 ix 的伴随事件指令。
// anchor 程序通过 self-CPI 输出事件：事件指令与发起指令同属一个主指令，
// 位于其后的 inner 序列中（CREATE 类事件可能就在发起指令自身携带）。
// 找到首个匹配任一 eventID 的指令返回，否则 ErrEventInstructionNotFound。
func FindEvent(ctx *Context, ix *core.AdaptedInstruction, eventIDs ...uint64) (*core.AdaptedInstruction, error) {
	match := func(data []byte) bool {
		for _, id := range eventIDs {
			if decoder.MatchEvent(data, id) {
				return true
			}
		}
		return false
	}

	if match(ix.Data) {
		return ix, nil
	}
	for _, candidate := range ctx.View.Instructions {
		if candidate.IxIndex != ix.IxIndex || candidate.InnerIndex <= ix.InnerIndex {
			continue
		}
		// 事件由程序 self-CPI 发出，程序 ID 与发起方一致
		if candidate.ProgramID != ix.ProgramID {
			continue
		}
		if match(candidate.Data) {
			return candidate, nil
		}
	}
	return nil, ErrEventInstructionNotFound
}

// CollectEvents 收集某主指令下匹配 eventID 的全部事件指令（聚合器一次 route 产生多个 leg 事件）。
func CollectEvents(ctx *Context, ix *core.AdaptedInstruction, eventID uint64) []*core.AdaptedInstruction {
	var out []*core.AdaptedInstruction
	for _, candidate := range ctx.View.Instructions {
		if candidate.IxIndex != ix.IxIndex || candidate.InnerIndex <= ix.InnerIndex {
			continue
		}
		if candidate.ProgramID != ix.ProgramID {
			continue
		}
		if decoder.MatchEvent(candidate.Data, eventID) {
			out = append(out, candidate)
		}
	}
	return out
}
