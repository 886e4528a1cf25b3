package trafficlight

import (
	"fmt"

	"git.fiblab.net/general/common/v2/mathutil"
	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/entity"
	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/utils/config"
	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/utils/metrics"
)

// phase 解析后的相位
type phase struct {
	duration float64
	states   map[string]entity.Status // 逻辑类型->状态
}

// groupRuntime 信控组运行时数据
type groupRuntime struct {
	index      int32   // 当前相位
	totalTime  float64 // 当前相位总时长
	remainingT float64 // 当前相位剩余时间
}

// Group 固定相位信控组
// 功能：按预设相位顺序和时长切换一组信号灯的状态，同时作为组内信号灯的相位推进能力（entity.ITrigger）
type Group struct {
	id         string
	junctionID int32
	phases     []phase

	signals       []*Signal            // 组内全部信号灯（按配置顺序）
	signalsByType map[string][]*Signal // 逻辑类型->信号灯

	runtime  groupRuntime  // 运行时数据
	buffer   *groupRuntime // 数据buffer，用于交互式接口写入(optional)
	ok       bool          // 信控状态，true为开启，false为关闭（全绿）
	okBuffer bool          // 信控状态buffer，用于交互式接口写入
}

// newGroup 创建信控组
// 功能：解析相位配置，向组内信号灯登记可能出现的状态并绑定相位推进能力，最后写入初始相位的状态
// 参数：base-信控组配置，signals-属于该组的信号灯，offset-初始相位索引
// 返回：信控组与错误信息
func newGroup(base config.TrafficLightGroup, signals []*Signal, offset int32) (*Group, error) {
	g := &Group{
		id:            base.ID,
		junctionID:    base.JunctionID,
		phases:        make([]phase, 0, len(base.Phases)),
		signals:       signals,
		signalsByType: make(map[string][]*Signal),
		ok:            true,
		okBuffer:      true,
	}
	for i, p := range base.Phases {
		if p.Duration <= 0 {
			return nil, fmt.Errorf("group %s phase %d: duration %f must be positive", g.id, i, p.Duration)
		}
		ph := phase{duration: p.Duration, states: make(map[string]entity.Status, len(p.States))}
		for typ, name := range p.States {
			status, err := entity.ParseStatus(name)
			if err != nil {
				return nil, fmt.Errorf("group %s phase %d: %w", g.id, i, err)
			}
			ph.states[typ] = status
		}
		g.phases = append(g.phases, ph)
	}
	for _, s := range signals {
		g.signalsByType[s.Type()] = append(g.signalsByType[s.Type()], s)
		for _, p := range g.phases {
			if status, ok := p.states[s.Type()]; ok {
				s.AddPossibleStatus(status)
			}
		}
		if err := s.SetTriggerCallback(g); err != nil {
			return nil, err
		}
	}
	for _, p := range g.phases {
		for typ := range p.states {
			if _, ok := g.signalsByType[typ]; !ok {
				log.Warnf("group %s: no traffic light of type %q placed on any road", g.id, typ)
			}
		}
	}

	if len(g.phases) > 0 {
		g.runtime.index = offset % int32(len(g.phases))
		g.runtime.remainingT = g.phases[g.runtime.index].duration
		g.runtime.totalTime = g.runtime.remainingT
	}
	g.apply()
	return g, nil
}

// ID 信控组ID
func (g *Group) ID() string {
	return g.id
}

// apply 将当前相位写入组内信号灯
// 说明：信控关闭时全部信号灯为绿灯；相位中未出现的逻辑类型保持原状态
func (g *Group) apply() {
	if !g.ok {
		for _, s := range g.signals {
			s.setStatus(entity.StatusGreen)
		}
		return
	}
	if len(g.phases) == 0 {
		return
	}
	for typ, status := range g.phases[g.runtime.index].states {
		for _, s := range g.signalsByType[typ] {
			s.setStatus(status)
		}
	}
}

// NextPhase 切换到下一相位
// 功能：相位索引循环加一，重置相位剩余时间并写回信号灯状态
// 说明：实现entity.ITrigger，可由信号灯的TriggerNextPhase手动触发
func (g *Group) NextPhase() {
	if len(g.phases) == 0 || !g.ok {
		log.Debugf("group %s: ignore next phase (phases=%d, ok=%v)", g.id, len(g.phases), g.ok)
		return
	}
	g.runtime.index = (g.runtime.index + 1) % int32(len(g.phases))
	g.runtime.remainingT = g.phases[g.runtime.index].duration
	g.runtime.totalTime = g.runtime.remainingT
	g.apply()
	metrics.PhaseSwitches.WithLabelValues(g.id).Inc()
}

// update 更新阶段
// 功能：处理交互式接口写入的buffer，扣减相位剩余时间，到期时切换相位
// 参数：dt-时间步长
// 说明：超出当前相位的时间计入下一相位，单步跨越多个相位时连续切换
func (g *Group) update(dt float64) {
	if g.ok != g.okBuffer {
		g.ok = g.okBuffer
		g.apply()
	}
	if g.buffer != nil {
		g.runtime = *g.buffer
		g.buffer = nil
		g.apply()
	}
	if len(g.phases) == 0 || !g.ok {
		return
	}

	g.runtime.remainingT -= dt
	for g.runtime.remainingT <= 0 {
		carry := g.runtime.remainingT
		g.NextPhase()
		g.runtime.remainingT += carry
	}
}

// setPhase 设置信控相位
// 参数：index-相位索引，remainingT-剩余时间
// 说明：相位设置会延迟到下一个更新周期生效
func (g *Group) setPhase(index int32, remainingT float64) error {
	if index < 0 || int(index) >= len(g.phases) {
		return fmt.Errorf("group %s: phase index %d out of range [0, %d)", g.id, index, len(g.phases))
	}
	if remainingT <= 0 {
		remainingT = g.phases[index].duration
	}
	g.buffer = &groupRuntime{index: index, totalTime: remainingT, remainingT: remainingT}
	return nil
}

// setOk 设置信控开关状态，下一个更新周期生效
func (g *Group) setOk(ok bool) {
	g.okBuffer = ok
}

// Phase 当前相位索引，没有相位时返回-1
func (g *Group) Phase() int32 {
	if len(g.phases) == 0 {
		return -1
	}
	return g.runtime.index
}

// RemainingTime 当前相位剩余时间，没有相位或信控关闭时为无穷大
func (g *Group) RemainingTime() float64 {
	if len(g.phases) == 0 || !g.ok {
		return mathutil.INF
	}
	return g.runtime.remainingT
}

func (g *Group) Ok() bool {
	return g.ok
}
