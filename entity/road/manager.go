package road

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/entity"
	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/utils/config"
)

// RoadManager Road管理器
// 功能：管理所有Road实体，提供创建、查找功能
type RoadManager struct {
	data  map[int32]*Road
	roads []*Road
}

// NewManager 创建Road管理器实例
func NewManager() *RoadManager {
	return &RoadManager{
		data:  make(map[int32]*Road),
		roads: make([]*Road, 0),
	}
}

// Init 初始化所有Road
// 功能：根据配置初始化所有Road对象，建立ID映射关系
// 参数：roads-路段配置列表
// 说明：ID重复视为路网数据错误，直接panic
func (m *RoadManager) Init(roads []config.Road) {
	m.roads = lo.Map(roads, func(base config.Road, _ int) *Road {
		return newRoad(base)
	})
	if dup := lo.FindDuplicatesBy(m.roads, func(r *Road) int32 { return r.id }); len(dup) > 0 {
		log.Panicf("roads have duplicated id %d, please check data", dup[0].id)
	}
	m.data = lo.SliceToMap(m.roads, func(r *Road) (int32, *Road) {
		return r.id, r
	})
	log.Infof("Road: %v", len(m.roads))
}

// GetOrError 根据ID获取Road实例（带错误处理）
// 功能：通过Road ID查找对应的Road对象，如果不存在则返回错误
func (m *RoadManager) GetOrError(id int32) (entity.IRoadSegment, error) {
	if road, ok := m.data[id]; !ok {
		return nil, fmt.Errorf("no id %d in road data", id)
	} else {
		return road, nil
	}
}
