package consts

import "runtime"

const (
	ChainIDSolana uint32 = 100000

	// SOLDecimals 原生 SOL 精度，未知 mint 的兜底精度也取该值
	SOLDecimals uint8 = 9
)

// CpuCount 表示逻辑 CPU 核心数，用于控制并发任务调度上限
var CpuCount = runtime.NumCPU()
