package decoder

import (
	"encoding/binary"
	"testing"

	"dex-parser-sol/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试游标的顺序读取与小端语义
func TestCursorReads(t *testing.T) {
	buf := make([]byte, 0, 64)
	buf = append(buf, 0x7f)                                    // u8
	buf = binary.LittleEndian.AppendUint16(buf, 0x1234)        // u16
	buf = binary.LittleEndian.AppendUint64(buf, 1_000_000_000) // u64
	buf = binary.LittleEndian.AppendUint64(buf, ^uint64(41))   // i64: -42 的补码

	c := NewCursor(buf)

	v8, err := c.U8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x7f), v8)

	v16, err := c.U16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), v16)

	v64, err := c.U64()
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_000), v64)

	i64, err := c.I64()
	require.NoError(t, err)
	assert.Equal(t, int64(-42), i64)

	assert.Equal(t, 0, c.Remaining())
}

// 越界读取必须返回带定位信息的 BufferOverflowError，且不推进游标
func TestCursorOverflow(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3})

	_, err := c.U16()
	require.NoError(t, err)

	_, err = c.U64()
	require.Error(t, err)
	assert.True(t, IsBufferOverflow(err))

	overflow := err.(*BufferOverflowError)
	assert.Equal(t, 2, overflow.Offset)
	assert.Equal(t, 3, overflow.Length)
	assert.Equal(t, 8, overflow.Want)

	// 失败的读取不改变偏移，后续仍可读剩余字节
	v, err := c.U8()
	require.NoError(t, err)
	assert.Equal(t, uint8(3), v)
}

// 测试 4 字节长度前缀字符串与 32 字节 pubkey 读取
func TestCursorStringAndPubkey(t *testing.T) {
	wsol := types.PubkeyFromBase58("So11111111111111111111111111111111111111112")

	buf := make([]byte, 0, 64)
	buf = binary.LittleEndian.AppendUint32(buf, 5)
	buf = append(buf, "hello"...)
	buf = append(buf, wsol[:]...)

	c := NewCursor(buf)

	s, err := c.String()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	pk, err := c.Pubkey()
	require.NoError(t, err)
	assert.Equal(t, wsol, pk)

	// 长度前缀声明的长度超出剩余数据时必须报越界
	c2 := NewCursor(binary.LittleEndian.AppendUint32(nil, 100))
	_, err = c2.String()
	assert.True(t, IsBufferOverflow(err))
}

// 测试 discriminator 匹配：8 字节指令 tag 与 16 字节事件 tag
func TestDiscriminatorMatch(t *testing.T) {
	// sha256("global:swap")[:8]
	const swapTag = uint64(0xf8c69e91e17587c8)

	data := make([]byte, 0, 24)
	data = binary.BigEndian.AppendUint64(data, swapTag)
	data = append(data, 0xde, 0xad)

	assert.True(t, MatchU64(data, swapTag))
	assert.False(t, MatchU64(data, swapTag+1))
	assert.False(t, MatchU64(data[:7], swapTag)) // 数据不足不报错，仅不匹配

	// anchor 事件：marker + 事件 ID
	const tradeEventID = uint64(0xbddb7fd34ee661ee)
	event := make([]byte, 0, 24)
	event = binary.BigEndian.AppendUint64(event, AnchorEventMarker)
	event = binary.BigEndian.AppendUint64(event, tradeEventID)
	event = append(event, 0x01, 0x02, 0x03)

	assert.True(t, IsAnchorEvent(event))
	assert.True(t, MatchEvent(event, tradeEventID))
	assert.False(t, MatchEvent(event, tradeEventID+1))
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, EventPayload(event))
	assert.Nil(t, EventPayload(event[:15]))
}

// 测试 schema 解码：optional 字段的存在位语义
func TestSchemaOptionalFields(t *testing.T) {
	schema := Schema{
		{Name: "amount", Type: TypeU64},
		{Name: "expiry", Type: TypeI64, Optional: true},
		{Name: "label", Type: TypeString},
	}

	// expiry 存在
	buf := binary.LittleEndian.AppendUint64(nil, 500)
	buf = append(buf, 1)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(1700000000))
	buf = binary.LittleEndian.AppendUint32(buf, 2)
	buf = append(buf, "ok"...)

	out, err := schema.DecodeBytes(buf)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), out["amount"])
	assert.Equal(t, int64(1700000000), out["expiry"])
	assert.Equal(t, "ok", out["label"])

	// expiry 缺失：存在位为 0，后续字段紧随其后
	buf = binary.LittleEndian.AppendUint64(nil, 500)
	buf = append(buf, 0)
	buf = binary.LittleEndian.AppendUint32(buf, 2)
	buf = append(buf, "ok"...)

	out, err = schema.DecodeBytes(buf)
	require.NoError(t, err)
	_, hasExpiry := out["expiry"]
	assert.False(t, hasExpiry)
	assert.Equal(t, "ok", out["label"])

	// 截断 payload 必须报越界而非错读
	_, err = schema.DecodeBytes(buf[:6])
	assert.True(t, IsBufferOverflow(err))
}
