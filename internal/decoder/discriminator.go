package decoder

import "encoding/binary"

// AnchorEventMarker anchor 程序事件指令的 8 字节前缀（大端形式的常量表示）。
// 完整事件 tag 为 16 字节：marker + 8 字节事件专属 ID。
const AnchorEventMarker uint64 = 0xe445a52e51cb9a1d

// U64Tag 读取前 8 字节作为大端 uint64，用于与静态 discriminator 常量比较。
// 数据不足返回 false，不视为错误（"非该事件"）。
func U64Tag(data []byte) (uint64, bool) {
	if len(data) < 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(data[:8]), true
}

// MatchU64 判断指令数据是否携带指定的 8 字节 discriminator。
func MatchU64(data []byte, tag uint64) bool {
	v, ok := U64Tag(data)
	return ok && v == tag
}

// IsAnchorEvent 判断指令数据是否为 anchor 事件（16 字节 tag 的前半段匹配 marker）。
func IsAnchorEvent(data []byte) bool {
	return MatchU64(data, AnchorEventMarker)
}

// MatchEvent 判断指令数据是否为指定事件：marker + eventID 共 16 字节逐字节相等。
func MatchEvent(data []byte, eventID uint64) bool {
	if len(data) < 16 {
		return false
	}
	return binary.BigEndian.Uint64(data[:8]) == AnchorEventMarker &&
		binary.BigEndian.Uint64(data[8:16]) == eventID
}

// EventPayload 返回 16 字节事件 tag 之后的负载，tag 不完整返回 nil。
func EventPayload(data []byte) []byte {
	if len(data) < 16 {
		return nil
	}
	return data[16:]
}
