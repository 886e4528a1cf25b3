package entity

import (
	"fmt"

	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
)

// Status 信号灯显示状态
// 功能：表示单个信号灯当前的显示状态，数值即输出文件中的状态编码
type Status int32

const (
	StatusGreen    Status = iota // 绿灯
	StatusGreenRed               // 绿转红过渡（黄灯）
	StatusRed                    // 红灯
	StatusRedGreen               // 红转绿过渡（红黄灯）
)

var statusNames = map[Status]string{
	StatusGreen:    "green",
	StatusGreenRed: "green_red",
	StatusRed:      "red",
	StatusRedGreen: "red_green",
}

// AllStatuses 按编码顺序排列的全部信号灯状态
var AllStatuses = []Status{StatusGreen, StatusGreenRed, StatusRed, StatusRedGreen}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int32(s))
}

// ParseStatus 从配置中的名称解析信号灯状态
// 参数：name-状态名（green、green_red、red、red_green）
// 返回：对应状态，名称未知时返回错误
func ParseStatus(name string) (Status, error) {
	for s, n := range statusNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown traffic light status %q", name)
}

// LightState 转换为车道级别的三色灯状态
// 说明：两种过渡状态都按黄灯处理
func (s Status) LightState() mapv2.LightState {
	switch s {
	case StatusGreen:
		return mapv2.LightState_LIGHT_STATE_GREEN
	case StatusRed:
		return mapv2.LightState_LIGHT_STATE_RED
	case StatusGreenRed, StatusRedGreen:
		return mapv2.LightState_LIGHT_STATE_YELLOW
	default:
		return mapv2.LightState_LIGHT_STATE_UNSPECIFIED
	}
}

// 信号灯所挂接的路段（路网对信号灯而言是不透明句柄）
type IRoadSegment interface {
	ID() int32       // 路段ID
	Length() float64 // 路段长度（m）
}

// 相位推进能力，由信控组实现，信号灯只负责转发
type ITrigger interface {
	NextPhase() // 切换到下一相位，并由实现方写回信号灯状态
}

// entity/trafficlight/signal.go的依赖倒置，供输出模块读取
type ISignal interface {
	Type() string                       // 逻辑类型，不要求全网唯一
	GroupID() string                    // 信控组ID
	Status() Status                     // 当前状态
	Position() (float64, error)         // 在路段上的位置，未设置时返回错误
	HasPosition() bool                  // 是否已设置位置
	RoadSegment() (IRoadSegment, error) // 所在路段，未设置时返回错误
	LightCount() int                    // 灯头数量，最多3个
}
