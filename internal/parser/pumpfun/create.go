package pumpfun

import (
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/decoder"
	"dex-parser-sol/internal/parser/common"
	"dex-parser-sol/pkg/logger"
)

// CreateEvent 负载：三个变长字符串打头，无法用固定结构体反序列化。
var createEventSchema = decoder.Schema{
	{Name: "name", Type: decoder.TypeString},
	{Name: "symbol", Type: decoder.TypeString},
	{Name: "uri", Type: decoder.TypeString},
	{Name: "mint", Type: decoder.TypePubkey},
	{Name: "bondingCurve", Type: decoder.TypePubkey},
	{Name: "user", Type: decoder.TypePubkey},
}

// extractCreate 解析代币发射：CreateEvent → CREATE 池事件，bonding curve 即池子。
func extractCreate(ctx *common.Context, ix *core.AdaptedInstruction) *core.PoolEvent {
	eventIx, err := common.FindEvent(ctx, ix, CreateEventID)
	if err != nil {
		logger.Debugf("pumpfun create event missing: tx=%s, idx=%s", ctx.Signature(), ix.Idx())
		return nil
	}

	fields, err := createEventSchema.DecodeBytes(decoder.EventPayload(eventIx.Data))
	if err != nil {
		logger.Debugf("pumpfun create event decode: %v, tx=%s", err, ctx.Signature())
		return nil
	}

	mint, _ := fields["mint"].(string)
	bondingCurve, _ := fields["bondingCurve"].(string)
	user, _ := fields["user"].(string)
	if mint == "" || bondingCurve == "" {
		return nil
	}

	// 发射时代币尚未注入，金额由后续首笔 buy 体现，这里只记录池子与 mint
	token0 := core.TokenAmount{Mint: mint, Amount: "0", Decimals: 6}
	return &core.PoolEvent{
		Type:      core.PoolCreate,
		PoolID:    bondingCurve,
		Token0:    &token0,
		User:      user,
		ProgramID: ix.ProgramID.String(),
		Amm:       "Pumpfun",
		Slot:      ctx.View.Slot,
		Timestamp: ctx.View.BlockTime,
		Signature: ctx.Signature(),
		Idx:       ix.Idx(),
	}
}
