package decoder

import "fmt"

// 结构化负载的 schema 驱动解码。
// 适用于编码长度不定（含 optional 字段）的 payload：固定字段表按序消费，
// optional 字段前置 1 字节存在位（0=缺失，1=存在后紧跟值）。
// 定长事件结构优先用 borsh 直接反序列化，schema 解码只服务于
// 无法预先定义 Go 结构体、或字段按位置截取的场景。

type FieldType uint8

const (
	TypeU8 FieldType = iota
	TypeU16
	TypeU32
	TypeU64
	TypeI64
	TypeBool
	TypePubkey // 32 字节，读出后以 base58 字符串存入结果
	TypeString // 4 字节小端长度前缀 + UTF-8
	TypeBytes  // 定长字节数组，长度由 Field.Size 指定
)

// Field schema 中的一个字段：按声明顺序消费。
type Field struct {
	Name     string
	Type     FieldType
	Size     int  // 仅 TypeBytes 使用
	Optional bool // 前置 1 字节存在位
}

// Schema 有序字段表。
type Schema []Field

// Decode 按 schema 顺序消费游标，返回字段名 → 值。
// optional 字段缺失时不写入结果；任何越界读取原样返回 *BufferOverflowError。
func (s Schema) Decode(c *Cursor) (map[string]any, error) {
	out := make(map[string]any, len(s))
	for _, f := range s {
		if f.Optional {
			present, err := c.Bool()
			if err != nil {
				return nil, err
			}
			if !present {
				continue
			}
		}
		v, err := readField(c, f)
		if err != nil {
			return nil, err
		}
		out[f.Name] = v
	}
	return out, nil
}

// DecodeBytes 便捷入口：从字节切片起始处解码。
func (s Schema) DecodeBytes(data []byte) (map[string]any, error) {
	return s.Decode(NewCursor(data))
}

func readField(c *Cursor, f Field) (any, error) {
	switch f.Type {
	case TypeU8:
		return c.U8()
	case TypeU16:
		return c.U16()
	case TypeU32:
		return c.U32()
	case TypeU64:
		return c.U64()
	case TypeI64:
		return c.I64()
	case TypeBool:
		return c.Bool()
	case TypePubkey:
		p, err := c.Pubkey()
		if err != nil {
			return nil, err
		}
		return p.String(), nil
	case TypeString:
		return c.String()
	case TypeBytes:
		b, err := c.Bytes(f.Size)
		if err != nil {
			return nil, err
		}
		out := make([]byte, len(b))
		copy(out, b)
		return out, nil
	}
	return nil, fmt.Errorf("unknown field type %d for field %q", f.Type, f.Name)
}
