package core

// PoolEventType 流动性事件类型。
type PoolEventType string

const (
	PoolCreate PoolEventType = "CREATE"
	PoolAdd    PoolEventType = "ADD"
	PoolRemove PoolEventType = "REMOVE"
)

// PoolEvent 一次流动性池操作（建池 / 加仓 / 减仓）。
// Token0 固定为项目代币、Token1 固定为报价资产（OrderLpLegs 归一化后的顺序）。
type PoolEvent struct {
	Type       PoolEventType `json:"type"`
	PoolID     string        `json:"poolId"`
	PoolLpMint string        `json:"poolLpMint,omitempty"`
	Token0     *TokenAmount  `json:"token0,omitempty"`
	Token1     *TokenAmount  `json:"token1,omitempty"`
	LpAmount   *TokenAmount  `json:"lpAmount,omitempty"`
	User       string        `json:"user"`
	ProgramID  string        `json:"programId"`
	Amm        string        `json:"amm,omitempty"`
	Slot       uint64        `json:"slot"`
	Timestamp  int64         `json:"timestamp"`
	Signature  string        `json:"signature"`
	Idx        string        `json:"idx"`
}
