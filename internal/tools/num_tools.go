package tools

import "strconv"

// ParseUint64 解析十进制字符串为 uint64，非法输入返回 0。
// 余额快照中的 amount 字段由 RPC 保证为十进制整数串，解析失败视为 0 处理。
func ParseUint64(s string) uint64 {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// FormatUint64 uint64 → 十进制字符串。
func FormatUint64(v uint64) string {
	return strconv.FormatUint(v, 10)
}
