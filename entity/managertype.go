package entity

import (
	"git.fiblab.net/sim/syncer/v3"
	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/utils/config"
)

// Manager依赖倒置

// entity/road/manager.go的依赖倒置
type IRoadManager interface {
	Init(roads []config.Road) // 初始化

	// 输入Road ID，查找Road，如果不存在则返回error
	GetOrError(id int32) (IRoadSegment, error)
}

// entity/trafficlight/manager.go的依赖倒置
type ITrafficLightManager interface {
	Init(roads []config.Road, groups []config.TrafficLightGroup, roadManager IRoadManager) // 初始化
	Register(sidecar *syncer.Sidecar)                                                       // 注册到Sidecar

	Signals() []ISignal           // 按配置顺序排列的全部信号灯
	Trigger(groupID string) error // 手动触发信控组进入下一相位
	Update(dt float64)            // 更新阶段
}
