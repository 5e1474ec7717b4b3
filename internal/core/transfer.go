package core

// Transfer 类型常量，与 jsonParsed 编码的 type 字段保持同名。
const (
	TransferTypeTransfer        = "transfer"
	TransferTypeTransferChecked = "transferChecked"
	TransferTypeMintTo          = "mintTo"
	TransferTypeMintToChecked   = "mintToChecked"
	TransferTypeBurn            = "burn"
	TransferTypeBurnChecked     = "burnChecked"
)

// TransferInfo 转账参与方与金额。
type TransferInfo struct {
	Authority        string      `json:"authority,omitempty"`
	Source           string      `json:"source,omitempty"`
	Destination      string      `json:"destination,omitempty"`
	DestinationOwner string      `json:"destinationOwner,omitempty"`
	Mint             string      `json:"mint"`
	TokenAmount      TokenAmount `json:"tokenAmount"`
}

// TransferAction 一次已对账的代币转移动作（mint 与精度均已解出）。
// Idx 是回溯到指令位置的唯一关联键。
type TransferAction struct {
	Type      string       `json:"type"`
	ProgramID string       `json:"programId"`
	Info      TransferInfo `json:"info"`
	Idx       string       `json:"idx"`
}
