package output

import (
	"context"
	"fmt"
	"time"

	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/entity"
	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/utils/metrics"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	defaultBatchSize = 100
	writeTimeout     = 10 * time.Second
)

// Archive MongoDB采样归档
// 功能：与Recorder相同的采样规则，把每次采样写成一条文档，批量插入MongoDB
// 说明：写入失败只记录日志，不影响仿真
type Archive struct {
	coll      *mongo.Collection
	interval  int64
	batchSize int
	signals   []entity.ISignal

	buffer []any
}

// NewArchive 创建采样归档
// 参数：coll-目标集合，interval-采样间隔（迭代次数），batchSize-批量写入条数（不为正时取默认值），signals-跟踪的信号灯
// 返回：采样归档与错误信息
func NewArchive(coll *mongo.Collection, interval int64, batchSize int, signals []entity.ISignal) (*Archive, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%w: sample interval %d must be positive", ErrInvalidArgument, interval)
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Archive{
		coll:      coll,
		interval:  interval,
		batchSize: batchSize,
		signals:   append([]entity.ISignal(nil), signals...),
		buffer:    make([]any, 0, batchSize),
	}, nil
}

// sampleDoc 生成一次采样的文档
func sampleDoc(iteration int64, t float64, signals []entity.ISignal) bson.M {
	lights := make(bson.A, 0, len(signals))
	for i, s := range signals {
		// light_state为车道级三色灯状态，供读取mapv2数据的下游使用
		light := bson.M{
			"index":       i + 1,
			"type":        s.Type(),
			"group_id":    s.GroupID(),
			"status":      int32(s.Status()),
			"light_state": int32(s.Status().LightState()),
		}
		if p, err := s.Position(); err == nil {
			light["position"] = p
		}
		if r, err := s.RoadSegment(); err == nil {
			light["road_id"] = r.ID()
		}
		lights = append(lights, light)
	}
	return bson.M{
		"step":           iteration,
		"t":              t,
		"traffic_lights": lights,
	}
}

// Update 每个仿真迭代调用一次，达到批量条数时写入数据库
func (a *Archive) Update(iteration int64, t float64) {
	if iteration%a.interval != 0 {
		return
	}
	a.buffer = append(a.buffer, sampleDoc(iteration, t, a.signals))
	if len(a.buffer) >= a.batchSize {
		a.flush()
	}
}

func (a *Archive) flush() {
	if len(a.buffer) == 0 {
		return
	}
	defer func() { a.buffer = a.buffer[:0] }()
	if a.coll == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if _, err := a.coll.InsertMany(ctx, a.buffer); err != nil {
		metrics.OutputErrors.WithLabelValues("mongo").Inc()
		log.Errorf("failed to archive %d traffic light samples: %v", len(a.buffer), err)
		return
	}
	metrics.ArchivedSamples.Add(float64(len(a.buffer)))
}

// Close 写入剩余的采样
func (a *Archive) Close() {
	a.flush()
}
