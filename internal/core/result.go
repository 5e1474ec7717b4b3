package core

// Option 单次解析的可选配置。零值不可直接使用，请从 DefaultOption 出发修改。
type Option struct {
	TryUnknownDEX    bool     // 未注册程序是否尝试由转账台账直接合成交易，默认开启
	ProgramIDs       []string // 白名单：非空时只解析列出的程序
	IgnoreProgramIDs []string // 黑名单：跳过列出的程序
	RawAmount        bool     // UiAmount 不做精度折算，保持原始整数值
}

// DefaultOption 默认解析配置。
func DefaultOption() Option {
	return Option{TryUnknownDEX: true}
}

// Allows 按白名单 / 黑名单判断某程序是否参与解析。
func (o *Option) Allows(programID string) bool {
	for _, id := range o.IgnoreProgramIDs {
		if id == programID {
			return false
		}
	}
	if len(o.ProgramIDs) == 0 {
		return true
	}
	for _, id := range o.ProgramIDs {
		if id == programID {
			return true
		}
	}
	return false
}

// Result 单笔交易的解析结果。
// State 为 false 表示解析过程被内部异常中断，Msg 携带签名与错误信息，
// 其余字段为中断前的尽力输出。调用方必须检查 State 来区分"无事件"与"解析失败"。
type Result struct {
	State       bool             `json:"state"`
	Trades      []TradeInfo      `json:"trades"`
	Liquidities []PoolEvent      `json:"liquidities"`
	Transfers   []TransferAction `json:"transfers"`
	Msg         string           `json:"msg,omitempty"`
}
