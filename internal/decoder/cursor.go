package decoder

import (
	"encoding/binary"
	"fmt"

	"dex-parser-sol/internal/types"
)

// BufferOverflowError 表示一次越界读取。
// 仅在单条指令/事件的解码范围内抛出，调用方捕获后丢弃该候选事件，继续解析交易其余部分。
type BufferOverflowError struct {
	Offset int // 读取起始偏移
	Length int // 缓冲区总长
	Want   int // 本次请求的字节数
}

func (e *BufferOverflowError) Error() string {
	return fmt.Sprintf("buffer overflow: offset=%d, length=%d, want=%d", e.Offset, e.Length, e.Want)
}

// IsBufferOverflow 判断 err 是否为越界读取。
func IsBufferOverflow(err error) bool {
	_, ok := err.(*BufferOverflowError)
	return ok
}

// Cursor 是带边界检查的顺序读取游标，所有多字节整数按小端读取。
type Cursor struct {
	data []byte
	off  int
}

func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Offset 当前偏移。
func (c *Cursor) Offset() int {
	return c.off
}

// Remaining 剩余可读字节数。
func (c *Cursor) Remaining() int {
	return len(c.data) - c.off
}

func (c *Cursor) require(n int) error {
	if c.off+n > len(c.data) {
		return &BufferOverflowError{Offset: c.off, Length: len(c.data), Want: n}
	}
	return nil
}

// Skip 跳过 n 字节。
func (c *Cursor) Skip(n int) error {
	if err := c.require(n); err != nil {
		return err
	}
	c.off += n
	return nil
}

func (c *Cursor) U8() (uint8, error) {
	if err := c.require(1); err != nil {
		return 0, err
	}
	v := c.data[c.off]
	c.off++
	return v, nil
}

func (c *Cursor) Bool() (bool, error) {
	v, err := c.U8()
	return v != 0, err
}

func (c *Cursor) U16() (uint16, error) {
	if err := c.require(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(c.data[c.off:])
	c.off += 2
	return v, nil
}

func (c *Cursor) U32() (uint32, error) {
	if err := c.require(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.data[c.off:])
	c.off += 4
	return v, nil
}

func (c *Cursor) U64() (uint64, error) {
	if err := c.require(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(c.data[c.off:])
	c.off += 8
	return v, nil
}

func (c *Cursor) I64() (int64, error) {
	v, err := c.U64()
	return int64(v), err
}

// Bytes 读取 n 字节，返回的 slice 与底层缓冲共享，调用方不得修改。
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if err := c.require(n); err != nil {
		return nil, err
	}
	v := c.data[c.off : c.off+n]
	c.off += n
	return v, nil
}

func (c *Cursor) Pubkey() (types.Pubkey, error) {
	b, err := c.Bytes(32)
	if err != nil {
		return types.Pubkey{}, err
	}
	var p types.Pubkey
	copy(p[:], b)
	return p, nil
}

// String 读取 4 字节小端长度前缀 + UTF-8 字节。
func (c *Cursor) String() (string, error) {
	n, err := c.U32()
	if err != nil {
		return "", err
	}
	b, err := c.Bytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
