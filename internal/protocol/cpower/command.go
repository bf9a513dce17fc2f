package cpower

import "encoding/binary"

// 命令码
const (
	cmdRestartHardware uint8 = 0x2D
	cmdBrightness      uint8 = 0x46
	cmdTimeControl     uint8 = 0x47
	cmdQueryVersion    uint8 = 0x4B
	cmdPowerControl    uint8 = 0x76
	cmdDisplayMessage  uint8 = 0x7B

	// 请求应答标志：所有下行命令都要求控制卡回包
	needResponse uint8 = 0x01
)

// 显示消息(0x7B)子命令
const (
	subCreateWindows uint8 = 0x01
	subDisplayTime   uint8 = 0x05
	subSendPureText  uint8 = 0x12
)

// 文本显示参数（固定模板）
const (
	displayModeInstant uint8 = 0x00
	alignVCenterLeft   uint8 = 0x04
	speedFastest       uint8 = 0x01
	fontSize16         uint8 = 0x02
)

// Command 控制卡命令（封闭集合，仅本包内类型可实现）
type Command interface {
	Kind() string
	isCommand()
}

// RestartHardware 硬件重启
type RestartHardware struct{}

// BrightnessControl 亮度查询/设置（暂未实现编码）
type BrightnessControl struct {
	Query      bool
	Brightness *uint8
}

// TimeControl 时钟控制
type TimeControl struct {
	Time TimeCommand
}

// QueryVersion 查询版本信息，同时用作保活探测
type QueryVersion struct{}

// PowerControl 开关屏查询/设置
type PowerControl struct {
	Query   bool
	PowerOn *bool
}

// DisplayMessage 显示消息
type DisplayMessage struct {
	Display DisplayCommand
}

func (RestartHardware) Kind() string   { return "restart" }
func (BrightnessControl) Kind() string { return "brightness" }
func (TimeControl) Kind() string       { return "time" }
func (QueryVersion) Kind() string      { return "version" }
func (PowerControl) Kind() string      { return "power" }
func (DisplayMessage) Kind() string    { return "display" }

func (RestartHardware) isCommand()   {}
func (BrightnessControl) isCommand() {}
func (TimeControl) isCommand()       {}
func (QueryVersion) isCommand()      {}
func (PowerControl) isCommand()      {}
func (DisplayMessage) isCommand()    {}

// TimeCommand 时钟子命令
type TimeCommand interface{ isTimeCommand() }

// TimeQuery 查询时间
type TimeQuery struct{}

// TimeSet 设置时间
type TimeSet struct {
	Hours, Minutes, Seconds uint8
}

// TimeStartStop 启停计时（true=启动）
type TimeStartStop struct {
	Start bool
}

func (TimeQuery) isTimeCommand()     {}
func (TimeSet) isTimeCommand()       {}
func (TimeStartStop) isTimeCommand() {}

// DisplayCommand 显示子命令
type DisplayCommand interface{ isDisplayCommand() }

// CreateWindows 划分显示窗口
type CreateWindows struct {
	Windows []WindowRect
}

// SendText 发送富文本（暂未实现编码）
type SendText struct {
	WindowID uint8
	Text     string
	Color    Color
}

// SendPureText 向窗口发送纯文本
type SendPureText struct {
	WindowID uint8
	Text     string
	Color    Color
}

// DisplayTime 在窗口显示控制卡时钟
type DisplayTime struct {
	WindowID uint8
}

func (CreateWindows) isDisplayCommand() {}
func (SendText) isDisplayCommand()      {}
func (SendPureText) isDisplayCommand()  {}
func (DisplayTime) isDisplayCommand()   {}

// EncodeCommand 将命令编码为帧内命令数据。
// 未实现的命令返回空切片，调用方可用 IsEncodable 判断。
func EncodeCommand(cmd Command) []byte {
	switch c := cmd.(type) {
	case RestartHardware:
		return []byte{cmdRestartHardware, needResponse, 0x00}
	case TimeControl:
		return encodeTime(c.Time)
	case QueryVersion:
		return []byte{cmdQueryVersion, needResponse}
	case PowerControl:
		if c.Query {
			return []byte{cmdPowerControl, needResponse}
		}
		on := uint8(0x00)
		if c.PowerOn != nil && *c.PowerOn {
			on = 0x01
		}
		return []byte{cmdPowerControl, needResponse, on}
	case DisplayMessage:
		return encodeDisplay(c.Display)
	case BrightnessControl:
		return []byte{}
	default:
		return []byte{}
	}
}

// IsEncodable 判断命令是否有实际编码
func IsEncodable(cmd Command) bool {
	return len(EncodeCommand(cmd)) > 0
}

func encodeTime(tc TimeCommand) []byte {
	switch t := tc.(type) {
	case TimeQuery:
		return []byte{cmdTimeControl, needResponse, 0x01}
	case TimeSet:
		return []byte{cmdTimeControl, needResponse, 0x02, t.Hours, t.Minutes, t.Seconds}
	case TimeStartStop:
		// 0x03 启动 / 0x04 停止
		op := uint8(0x04)
		if t.Start {
			op = 0x03
		}
		return []byte{cmdTimeControl, needResponse, op}
	default:
		return []byte{}
	}
}

func encodeDisplay(dc DisplayCommand) []byte {
	switch d := dc.(type) {
	case CreateWindows:
		// 子命令(1) + 包序号/最大包序号(2 计入) + 窗口数(1) 之外，每个窗口 8 字节
		dataLen := 3 + len(d.Windows)*8
		buf := []byte{cmdDisplayMessage, needResponse}
		buf = binary.LittleEndian.AppendUint16(buf, uint16(dataLen))
		buf = append(buf, 0x00, 0x00) // 包序号、最大包序号
		buf = append(buf, subCreateWindows, uint8(len(d.Windows)))
		for _, w := range d.Windows {
			buf = binary.LittleEndian.AppendUint16(buf, w.X)
			buf = binary.LittleEndian.AppendUint16(buf, w.Y)
			buf = binary.LittleEndian.AppendUint16(buf, w.Width)
			buf = binary.LittleEndian.AppendUint16(buf, w.Height)
		}
		return buf
	case SendPureText:
		text := []byte(d.Text)
		dataLen := 3 + 7 + len(text)
		buf := []byte{cmdDisplayMessage, needResponse}
		buf = binary.LittleEndian.AppendUint16(buf, uint16(dataLen))
		buf = append(buf, 0x00, 0x00)
		buf = append(buf, subSendPureText, d.WindowID, displayModeInstant, alignVCenterLeft, speedFastest)
		buf = append(buf, 0x00, 0x00) // 停留时间：常驻
		buf = append(buf, fontSize16, d.Color.Red, d.Color.Green, d.Color.Blue)
		buf = append(buf, text...)
		buf = append(buf, 0x00)
		return buf
	case DisplayTime:
		return []byte{
			cmdDisplayMessage, needResponse,
			0x06, 0x00, // 数据长度
			0x00, 0x00,
			subDisplayTime, d.WindowID, displayModeInstant, alignVCenterLeft, speedFastest, fontSize16,
		}
	case SendText:
		return []byte{}
	default:
		return []byte{}
	}
}
