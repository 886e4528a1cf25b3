package road

import (
	"fmt"

	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/utils/config"
)

// Road 路段实体
// 功能：信号灯挂接的路段，对信号灯模块只暴露ID与长度
type Road struct {
	id     int32
	name   string
	length float64
}

// newRoad 创建并初始化一个新的Road实例
// 参数：base-路段配置
// 返回：初始化完成的Road实例
func newRoad(base config.Road) *Road {
	if base.Length <= 0 {
		log.Panicf("road %d has invalid length %f", base.ID, base.Length)
	}
	return &Road{
		id:     base.ID,
		name:   base.Name,
		length: base.Length,
	}
}

// ID 获取Road的唯一标识符
// 返回：Road的ID，如果Road为nil则返回-1
func (r *Road) ID() int32 {
	if r == nil {
		return -1
	}
	return r.id
}

func (r *Road) Name() string {
	return r.name
}

// Length 路段长度（m）
func (r *Road) Length() float64 {
	return r.length
}

func (r *Road) String() string {
	return fmt.Sprintf("Road{id=%d, name=%q, length=%.2f}", r.id, r.name, r.length)
}
