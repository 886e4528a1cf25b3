package trafficlight

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	mapv2connect "git.fiblab.net/sim/protos/v2/go/city/map/v2/mapv2connect"
	"git.fiblab.net/sim/syncer/v3"
)

// Register 将信号灯管理器注册到sidecar
// 功能：以TrafficLightService的形式提供外部相位控制接口，路口ID对应信控组配置中的junction_id
func (m *Manager) Register(sidecar *syncer.Sidecar) {
	sidecar.Register(
		mapv2connect.TrafficLightServiceName,
		func(opts ...connect.HandlerOption) (pattern string, handler http.Handler) {
			return mapv2connect.NewTrafficLightServiceHandler(m, opts...)
		},
	)
}

// SetTrafficLightPhase RPC接口：设置指定信控组的相位
// 功能：修改信控组当前相位和剩余时间，下一个更新周期生效
func (m *Manager) SetTrafficLightPhase(
	ctx context.Context, in *connect.Request[mapv2.SetTrafficLightPhaseRequest],
) (*connect.Response[mapv2.SetTrafficLightPhaseResponse], error) {
	req := in.Msg
	g, ok := m.junctions[req.JunctionId]
	if !ok {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("junction id does not exist"))
	}
	if req.TimeRemaining < 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("invalid remaining time"))
	}
	if err := g.setPhase(req.PhaseIndex, req.TimeRemaining); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	return connect.NewResponse(&mapv2.SetTrafficLightPhaseResponse{}), nil
}

// SetTrafficLightStatus RPC接口：设置指定信控组的开关状态
// 说明：true表示正常工作，false表示失效（全绿灯）
func (m *Manager) SetTrafficLightStatus(
	ctx context.Context, in *connect.Request[mapv2.SetTrafficLightStatusRequest],
) (*connect.Response[mapv2.SetTrafficLightStatusResponse], error) {
	req := in.Msg
	g, ok := m.junctions[req.JunctionId]
	if !ok {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("junction id does not exist"))
	}
	g.setOk(req.Ok)
	return connect.NewResponse(&mapv2.SetTrafficLightStatusResponse{}), nil
}
