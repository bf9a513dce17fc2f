package cpower

// WindowRect 窗口区域（像素坐标，原点左上角）
type WindowRect struct {
	X      uint16 `json:"x"`
	Y      uint16 `json:"y"`
	Width  uint16 `json:"width"`
	Height uint16 `json:"height"`
}

// Color RGB 颜色
type Color struct {
	Red   uint8 `json:"red"`
	Green uint8 `json:"green"`
	Blue  uint8 `json:"blue"`
}

var (
	Red   = Color{Red: 255}
	Green = Color{Green: 255}
	Blue  = Color{Blue: 255}
	White = Color{Red: 255, Green: 255, Blue: 255}
	Black = Color{}
)

// 标准布局窗口ID（按窗口创建顺序固定分配）
const (
	WindowHomeName  uint8 = 0
	WindowHomeScore uint8 = 1
	WindowAwayName  uint8 = 2
	WindowAwayScore uint8 = 3
	WindowTimer     uint8 = 4
)

// Layout 比分屏固定五窗口布局
type Layout struct {
	HomeName  WindowRect
	HomeScore WindowRect
	AwayName  WindowRect
	AwayScore WindowRect
	Timer     WindowRect
}

// StandardLayout 224x32 单元板标准布局：左侧两行队名+比分，右侧计时
func StandardLayout() Layout {
	return Layout{
		HomeName:  WindowRect{X: 0, Y: 0, Width: 96, Height: 16},
		HomeScore: WindowRect{X: 96, Y: 0, Width: 32, Height: 16},
		AwayName:  WindowRect{X: 0, Y: 16, Width: 96, Height: 16},
		AwayScore: WindowRect{X: 96, Y: 16, Width: 32, Height: 16},
		Timer:     WindowRect{X: 128, Y: 0, Width: 96, Height: 32},
	}
}

// Windows 按窗口ID顺序返回全部窗口
func (l Layout) Windows() []WindowRect {
	return []WindowRect{l.HomeName, l.HomeScore, l.AwayName, l.AwayScore, l.Timer}
}
