package cpower

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Frame CPower 以太网控制卡协议帧
// 格式：ID码(4, 固定0xFFFFFFFF) + 数据长度(2, LE) + 保留(2) + 包类型(1) + 卡类型(1) + 卡号(1) + 命令数据(var)
type Frame struct {
	Sentinel   uint32 // ID码，下行恒为 0xFFFFFFFF
	DataLength uint16 // 包类型 + 卡类型 + 卡号 + 命令数据 的长度（注意：协议按 4 + payload 计算）
	Reserved   uint16
	PacketType uint8 // 0x68 下行，0xE8 应答
	CardType   uint8 // 固定 0x32
	CardID     uint8
	Payload    []byte // 命令数据
}

const (
	sentinel = 0xFFFFFFFF

	// HeaderLen 帧头固定长度，短于该长度的数据不可能是合法帧
	HeaderLen = 11

	PacketTypeRequest  uint8 = 0x68
	PacketTypeResponse uint8 = 0xE8
	CardTypeCPower     uint8 = 0x32
)

// ErrFormat 帧格式错误（长度不足或无法解析）
var ErrFormat = errors.New("cpower: malformed frame")

// IsResponse 判断是否为控制卡应答帧
func (f *Frame) IsResponse() bool {
	return f.PacketType == PacketTypeResponse
}

// Encode 构造下行帧
func Encode(cardID uint8, payload []byte) []byte {
	buf := make([]byte, 0, HeaderLen+len(payload))

	// ID码（大端写入，全1）
	buf = binary.BigEndian.AppendUint32(buf, sentinel)
	// 数据长度：包类型 + 卡类型 + 卡号 + 保留位计入 4 字节
	buf = binary.LittleEndian.AppendUint16(buf, uint16(4+len(payload)))
	// 保留
	buf = binary.LittleEndian.AppendUint16(buf, 0)
	buf = append(buf, PacketTypeRequest, CardTypeCPower, cardID)
	buf = append(buf, payload...)
	return buf
}

// Decode 解析一帧；尾部所有字节视为命令数据
func Decode(b []byte) (*Frame, error) {
	if len(b) < HeaderLen {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrFormat, HeaderLen, len(b))
	}
	f := &Frame{
		Sentinel:   binary.BigEndian.Uint32(b[0:4]),
		DataLength: binary.LittleEndian.Uint16(b[4:6]),
		Reserved:   binary.LittleEndian.Uint16(b[6:8]),
		PacketType: b[8],
		CardType:   b[9],
		CardID:     b[10],
		Payload:    []byte{},
	}
	if len(b) > HeaderLen {
		// 复制一份，避免调用方复用读缓冲
		f.Payload = append(f.Payload, b[HeaderLen:]...)
	}
	return f, nil
}
