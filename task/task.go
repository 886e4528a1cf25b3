package task

import (
	"context"
	"path/filepath"
	"sync/atomic"

	"git.fiblab.net/general/common/v2/mongoutil"
	"git.fiblab.net/sim/syncer/v3"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/clock"
	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/entity"
	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/entity/road"
	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/entity/trafficlight"
	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/output"
	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/utils/config"
	"go.mongodb.org/mongo-driver/mongo"
)

// Context 仿真任务上下文
// 功能：包含一次仿真任务的所有变量和状态
// 说明：管理时钟、路段与信号灯管理器、输出以及与syncer的交互
type Context struct {
	// 任务名
	job string
	// 关闭指令
	closed atomic.Bool

	// 时钟
	clock *clock.Clock

	// 辅助程序，处理分布式模式下相关调用，包括与syncer、其他服务的交互
	sidecar *syncer.Sidecar
	// sidecar是否由本任务启动服务
	sidecarServing bool
	// sidecar close channel
	sidecarCloseCh chan struct{}

	// Road管理器
	roadManager entity.IRoadManager
	// 信号灯管理器
	trafficLightManager entity.ITrafficLightManager
	// 步数->该步需要手动切换相位的信控组
	triggers map[int32][]string

	// 运行时配置文件
	runtimeConfig *config.RuntimeConfig

	// 输出文件系统
	fs afero.Fs
	// 信号灯记录器（可选）
	recorder *output.Recorder
	// MongoDB采样归档（可选）
	archive     *output.Archive
	mongoClient *mongo.Client
}

// NewContext 创建新的仿真任务上下文
// 功能：初始化仿真系统的所有组件和配置
// 参数：
//   - job: 任务名称
//   - c: 配置对象
//   - sidecar: 外部sidecar实例
//   - startSidecarServe: 是否启动sidecar服务
//   - fs: 输出文件系统
//
// 返回：初始化完成的Context实例
func NewContext(
	job string,
	c config.Config,
	sidecar *syncer.Sidecar,
	startSidecarServe bool,
	fs afero.Fs,
) *Context {
	ctx := &Context{
		job:            job,
		sidecar:        sidecar,
		sidecarServing: startSidecarServe,
		sidecarCloseCh: make(chan struct{}),
		fs:             fs,
	}
	ctx.clock = clock.New(c.Control.Step)
	ctx.runtimeConfig = config.NewRuntimeConfig(c)

	ctx.roadManager = road.NewManager()
	ctx.trafficLightManager = trafficlight.NewManager(ctx.runtimeConfig)

	if ctx.sidecar != nil {
		ctx.clock.Register(ctx.sidecar)
		ctx.trafficLightManager.Register(ctx.sidecar)
	}

	// sidecar协程，用于提供gRPC服务
	if ctx.sidecar != nil && startSidecarServe {
		go func() {
			err := ctx.sidecar.Serve()
			if err != nil {
				log.Panicf("failed to serve: %v", err)
			}
			ctx.sidecarCloseCh <- struct{}{}
		}()
	}

	return ctx
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) RoadManager() entity.IRoadManager {
	return ctx.roadManager
}

func (ctx *Context) TrafficLightManager() entity.ITrafficLightManager {
	return ctx.trafficLightManager
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

// Init 装配路网、信号灯与输出
// 说明：装配错误直接panic；输出文件不可用时只记录日志
func (ctx *Context) Init() {
	ctx.clock.Init()

	in := ctx.runtimeConfig.All.Input
	ctx.roadManager.Init(in.Roads)
	ctx.trafficLightManager.Init(in.Roads, in.TrafficLightGroups, ctx.roadManager)
	ctx.triggers = lo.MapValues(
		lo.GroupBy(ctx.runtimeConfig.C.Triggers, func(t config.Trigger) int32 { return t.Step }),
		func(ts []config.Trigger, _ int32) []string {
			return lo.Map(ts, func(t config.Trigger, _ int) string { return t.Group })
		},
	)

	out := ctx.runtimeConfig.All.Output
	if out == nil {
		log.Info("disable traffic light output")
		return
	}
	signals := ctx.trafficLightManager.Signals()
	path := out.TrafficLightLogPath()
	if err := ctx.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Warnf("failed to create output dir: %v", err)
	}
	recorder, err := output.NewRecorder(ctx.fs, path, out.TrafficLightInterval, signals)
	if err != nil {
		log.Panicf("failed to create traffic light recorder: %v", err)
	}
	ctx.recorder = recorder

	if out.Mongo != nil {
		ctx.mongoClient = mongoutil.NewClient(out.Mongo.URI)
		coll := ctx.mongoClient.Database(out.Mongo.GetDb()).Collection(out.Mongo.GetColl())
		archive, err := output.NewArchive(coll, out.TrafficLightInterval, out.Mongo.BatchSize, signals)
		if err != nil {
			log.Panicf("failed to create traffic light archive: %v", err)
		}
		ctx.archive = archive
		log.Infof("archive traffic light samples to %s.%s", out.Mongo.DB, out.Mongo.Col)
	}
}

// Close 释放输出与sidecar，可重复调用
func (ctx *Context) Close() {
	if ctx.closed.Swap(true) {
		return
	}
	if ctx.recorder != nil {
		if err := ctx.recorder.Close(); err != nil {
			log.Errorf("failed to close traffic light recorder: %v", err)
		}
	}
	if ctx.archive != nil {
		ctx.archive.Close()
	}
	if ctx.mongoClient != nil {
		if err := ctx.mongoClient.Disconnect(context.Background()); err != nil {
			log.Errorf("failed to disconnect mongo: %v", err)
		}
	}
	if ctx.sidecar != nil {
		ctx.sidecar.Close()
		if ctx.sidecarServing {
			// wait for graceful stop
			<-ctx.sidecarCloseCh
		}
	}
}
