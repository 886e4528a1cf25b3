package trafficlight

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/entity"
	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/utils/config"
	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/utils/randengine"

	mapv2connect "git.fiblab.net/sim/protos/v2/go/city/map/v2/mapv2connect"
)

// Manager 信号灯管理器
// 功能：完成信号灯与信控组的装配（绑定路段、位置、相位推进能力），并在每步更新所有信控组
type Manager struct {
	mapv2connect.UnimplementedTrafficLightServiceHandler

	rc *config.RuntimeConfig

	signals   []*Signal
	groups    []*Group
	data      map[string]*Group // 信控组ID->信控组
	junctions map[int32]*Group  // 路口ID->信控组，供RPC接口使用
}

// NewManager 创建信号灯管理器实例
// 参数：rc-运行时配置
// 返回：新创建的信号灯管理器实例
func NewManager(rc *config.RuntimeConfig) *Manager {
	return &Manager{
		rc:        rc,
		signals:   make([]*Signal, 0),
		groups:    make([]*Group, 0),
		data:      make(map[string]*Group),
		junctions: make(map[int32]*Group),
	}
}

// Init 初始化所有信号灯与信控组
// 功能：根据配置装配信号灯，装配错误说明路网数据有误，直接panic
// 参数：roads-路段配置（含信号灯位置），groups-信控组配置，roadManager-路段管理器
func (m *Manager) Init(roads []config.Road, groups []config.TrafficLightGroup, roadManager entity.IRoadManager) {
	if err := m.build(roads, groups, roadManager); err != nil {
		log.Panicf("failed to assemble traffic lights: %v", err)
	}
	log.Infof("TrafficLight: %v", len(m.signals))
	log.Infof("TrafficLightGroup: %v", len(m.groups))
}

// build 装配信号灯与信控组
// 算法说明：
// 1. 按路段顺序创建信号灯，绑定路段与位置（位置必须落在路段内）
// 2. 按信控组ID分组，创建信控组并绑定相位推进能力
// 3. 检查每个信号灯都已绑定信控组
func (m *Manager) build(roads []config.Road, groups []config.TrafficLightGroup, roadManager entity.IRoadManager) error {
	signals := make([]*Signal, 0)
	for _, r := range roads {
		segment, err := roadManager.GetOrError(r.ID)
		if err != nil {
			return err
		}
		for _, p := range r.TrafficLights {
			if p.Position < 0 || p.Position > segment.Length() {
				return fmt.Errorf("%w: traffic light %s/%s position %.2f outside road %d [0, %.2f]",
					ErrInvalidArgument, p.Group, p.Type, p.Position, r.ID, segment.Length())
			}
			s := NewSignal(p.Type, p.Group)
			if err := s.SetRoadSegment(segment); err != nil {
				return err
			}
			if err := s.SetPosition(p.Position); err != nil {
				return err
			}
			signals = append(signals, s)
		}
	}

	byGroup := lo.GroupBy(signals, func(s *Signal) string { return s.GroupID() })
	var generator *randengine.Engine
	if m.rc != nil && m.rc.C.RandomOffset {
		generator = randengine.New(m.rc.C.Seed)
	}
	built := make([]*Group, 0, len(groups))
	data := make(map[string]*Group, len(groups))
	junctions := make(map[int32]*Group)
	for _, base := range groups {
		if _, ok := data[base.ID]; ok {
			return fmt.Errorf("%w: duplicated traffic light group id %q", ErrInvalidArgument, base.ID)
		}
		offset := int32(0)
		if generator != nil && len(base.Phases) > 0 {
			offset = int32(generator.IntnSafe(len(base.Phases)))
		}
		g, err := newGroup(base, byGroup[base.ID], offset)
		if err != nil {
			return err
		}
		built = append(built, g)
		data[base.ID] = g
		if base.JunctionID != 0 {
			if other, ok := junctions[base.JunctionID]; ok {
				return fmt.Errorf("%w: junction %d used by groups %q and %q",
					ErrInvalidArgument, base.JunctionID, other.id, g.id)
			}
			junctions[base.JunctionID] = g
		}
	}
	for _, s := range signals {
		if _, ok := data[s.GroupID()]; !ok {
			return fmt.Errorf("%w: no traffic light group %q for %v", ErrInvalidArgument, s.GroupID(), s)
		}
	}

	m.signals = signals
	m.groups = built
	m.data = data
	m.junctions = junctions
	return nil
}

// Signals 按配置顺序排列的全部信号灯
func (m *Manager) Signals() []entity.ISignal {
	return lo.Map(m.signals, func(s *Signal, _ int) entity.ISignal { return s })
}

// Group 根据ID获取信控组，如果不存在则返回错误
func (m *Manager) Group(id string) (*Group, error) {
	if g, ok := m.data[id]; !ok {
		return nil, fmt.Errorf("no id %q in traffic light group data", id)
	} else {
		return g, nil
	}
}

// Trigger 手动触发信控组进入下一相位
// 功能：通过组内第一个信号灯转发到信控组，与用户点击信号灯的效果相同
// 参数：groupID-信控组ID
// 返回：信控组不存在或组内没有信号灯时返回错误
func (m *Manager) Trigger(groupID string) error {
	g, err := m.Group(groupID)
	if err != nil {
		return err
	}
	if len(g.signals) == 0 {
		return fmt.Errorf("%w: traffic light group %q has no traffic light", ErrInvalidState, groupID)
	}
	return g.signals[0].TriggerNextPhase()
}

// Update 更新阶段，按配置顺序更新所有信控组
// 参数：dt-时间步长
func (m *Manager) Update(dt float64) {
	for _, g := range m.groups {
		g.update(dt)
	}
}
