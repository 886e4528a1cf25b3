package trafficlight

import (
	"errors"
	"fmt"

	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/entity"
	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/utils/container"
)

const maxLightCount = 3 // 单个信号灯最多的灯头数

var (
	// 在一次性初始化完成前访问，或重复初始化一次性字段
	ErrInvalidState = errors.New("traffic light: invalid state")
	// 缺少必需的协作对象
	ErrInvalidArgument = errors.New("traffic light: invalid argument")
)

// Signal 单个可控信号灯
// 功能：保存信号灯的身份、当前状态以及与路网的一次性绑定关系，相位推进委托给信控组
// 说明：position、roadSegment只能设置一次；status只由信控组写入，且不校验是否属于possibleStatuses
type Signal struct {
	typ     string // 逻辑类型，不要求全网唯一
	groupID string // 信控组ID，唯一对应一组基础设施

	status           entity.Status
	position         container.SetOnce[float64]
	roadSegment      container.SetOnce[entity.IRoadSegment]
	trigger          entity.ITrigger
	possibleStatuses map[entity.Status]struct{}
}

// NewSignal 创建信号灯
// 参数：typ-逻辑类型，groupID-信控组ID
// 返回：尚未绑定路段与信控的信号灯
func NewSignal(typ, groupID string) *Signal {
	return &Signal{
		typ:              typ,
		groupID:          groupID,
		possibleStatuses: make(map[entity.Status]struct{}),
	}
}

// Type 逻辑类型
// 说明：该类型不唯一对应基础设施中的某个信号灯
func (s *Signal) Type() string {
	return s.typ
}

// GroupID 信控组ID，唯一对应基础设施中的一组信号灯
func (s *Signal) GroupID() string {
	return s.groupID
}

func (s *Signal) Status() entity.Status {
	return s.status
}

// setStatus 由信控组写入新状态
func (s *Signal) setStatus(status entity.Status) {
	s.status = status
}

// Position 在路段上的位置
// 返回：位置（m），未设置时返回ErrInvalidState
func (s *Signal) Position() (float64, error) {
	if v, ok := s.position.Get(); ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w: traffic light without position: %v", ErrInvalidState, s)
}

func (s *Signal) HasPosition() bool {
	return s.position.IsSet()
}

// SetPosition 设置位置
// 说明：只能设置一次，即使再次设置相同的值也返回ErrInvalidState
func (s *Signal) SetPosition(position float64) error {
	if !s.position.Set(position) {
		return fmt.Errorf("%w: traffic light of type=%q position already set: %v", ErrInvalidState, s.typ, s)
	}
	return nil
}

// RoadSegment 所在路段
// 返回：路段，未设置时返回ErrInvalidState
func (s *Signal) RoadSegment() (entity.IRoadSegment, error) {
	if r, ok := s.roadSegment.Get(); ok {
		return r, nil
	}
	return nil, fmt.Errorf("%w: traffic light without road segment: %v", ErrInvalidState, s)
}

// SetRoadSegment 设置所在路段
// 说明：只能设置一次
func (s *Signal) SetRoadSegment(roadSegment entity.IRoadSegment) error {
	if roadSegment == nil {
		return fmt.Errorf("%w: nil road segment for %v", ErrInvalidArgument, s)
	}
	if !s.roadSegment.Set(roadSegment) {
		return fmt.Errorf("%w: road segment already set: %v", ErrInvalidState, s)
	}
	return nil
}

// AddPossibleStatus 添加该信号灯可能出现的状态，重复添加无影响
func (s *Signal) AddPossibleStatus(status entity.Status) {
	s.possibleStatuses[status] = struct{}{}
}

// LightCount 灯头数量，可能为0、1、2或3
func (s *Signal) LightCount() int {
	return min(maxLightCount, len(s.possibleStatuses))
}

// SetTriggerCallback 绑定相位推进能力
// 说明：只有第一次绑定生效，后续绑定被忽略；包装了nil *Group的接口值同样视为nil
func (s *Signal) SetTriggerCallback(trigger entity.ITrigger) error {
	if g, ok := trigger.(*Group); trigger == nil || (ok && g == nil) {
		return fmt.Errorf("%w: nil trigger callback for %v", ErrInvalidArgument, s)
	}
	if s.trigger != nil {
		log.Warnf("ignore second trigger callback for %v", s)
		return nil
	}
	s.trigger = trigger
	return nil
}

// TriggerNextPhase 让信控组切换到下一相位
// 说明：下一状态由信控组决定并写回，信号灯自身不计算任何时间
func (s *Signal) TriggerNextPhase() error {
	if s.trigger == nil {
		return fmt.Errorf("%w: no trigger callback bound: %v", ErrInvalidState, s)
	}
	s.trigger.NextPhase()
	return nil
}

func (s *Signal) String() string {
	position := "unset"
	if v, ok := s.position.Get(); ok {
		position = fmt.Sprintf("%.2f", v)
	}
	roadID := "null"
	if r, ok := s.roadSegment.Get(); ok {
		roadID = fmt.Sprint(r.ID())
	}
	return fmt.Sprintf(
		"TrafficLight{status=%v, position=%s, type=%s, groupId=%s, roadSegment.id=%s}",
		s.status, position, s.typ, s.groupID, roadID,
	)
}
