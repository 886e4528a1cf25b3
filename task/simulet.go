package task

import (
	"flag"
)

const (
	SelfName = "city" // 本程序在模拟任务集群中的名字
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 100, "心跳日志间隔步数")
)

// prepare 准备阶段，每步执行一次
// 功能：推进时钟并定期输出心跳日志
func (ctx *Context) prepare() {
	ctx.clock.Next()

	if ctx.clock.InternalStep%int32(*heartBeatInterval) == 0 {
		hour, minute, second := ctx.clock.GetHourMinuteSecond()
		log.Infof(
			"STEP: %d(%d:%d:%.2f)",
			ctx.clock.InternalStep,
			hour, minute, second,
		)
	}
}

// update 更新阶段，每步执行一次
// 功能：先执行本步的手动相位切换，再由信控组推进信号灯状态，最后由输出模块读取同一步的状态
// 说明：状态写入与记录读取在同一线程中先后执行，不会交错
func (ctx *Context) update() {
	ctx.trigger()
	ctx.trafficLightManager.Update(ctx.clock.DT)
	ctx.record()
}

// trigger 执行配置在当前步的手动相位切换
// 说明：信控组不存在或组内没有信号灯时只记录日志
func (ctx *Context) trigger() {
	for _, group := range ctx.triggers[ctx.clock.InternalStep] {
		if err := ctx.trafficLightManager.Trigger(group); err != nil {
			log.Warnf("step %d: failed to trigger traffic light group: %v", ctx.clock.InternalStep, err)
		} else {
			log.Debugf("step %d: trigger traffic light group %s", ctx.clock.InternalStep, group)
		}
	}
}

// record 按采样间隔输出信号灯状态
func (ctx *Context) record() {
	iteration := ctx.clock.Iteration()
	if ctx.recorder != nil {
		ctx.recorder.Update(iteration, ctx.clock.T)
	}
	if ctx.archive != nil {
		ctx.archive.Update(iteration, ctx.clock.T)
	}
}

// Run 运行
// 说明：无论正常结束还是panic，输出文件与sidecar都会被释放
func (ctx *Context) Run() {
	defer ctx.Close()
	// 初始化
	ctx.Init()
	// 初始状态
	ctx.record()
	// init syncer
	ctx.sidecar.Step(false)
	for {
		ctx.prepare()
		// 通知准备阶段完成
		log.Debugf("step %d: prepare complete and call NotifyStepReady", ctx.clock.InternalStep)
		ctx.sidecar.NotifyStepReady()
		ctx.update()
		log.Debugf("step %d: update complete", ctx.clock.InternalStep)
		close := ctx.sidecar.Step(ctx.clock.InternalStep+1 >= ctx.clock.END_STEP)
		if close || ctx.closed.Load() {
			break
		}
	}
	log.Infof("engine complete")
}

// RunLocal 不经过syncer直接运行全部步数
// 功能：用于离线批量运行与测试
func (ctx *Context) RunLocal() {
	defer ctx.Close()
	ctx.Init()
	ctx.record()
	for ctx.clock.InternalStep+1 < ctx.clock.END_STEP && !ctx.closed.Load() {
		ctx.prepare()
		ctx.update()
	}
	log.Infof("engine complete")
}
