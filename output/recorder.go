package output

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/entity"
	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/utils/metrics"
)

const commentChar = "#"

var (
	// 输出文件无法打开，记录器退化为空操作
	ErrSinkUnavailable = errors.New("output: sink unavailable")
	// 采样间隔等参数非法
	ErrInvalidArgument = errors.New("output: invalid argument")
)

// Recorder 信号灯记录器
// 功能：按固定迭代间隔采样一组信号灯的位置和状态，写入以#开头注释的文本文件
// 说明：
// 1. 文件打开失败时记录器退化为空操作，不影响仿真
// 2. 每写入一行立即flush
// 3. 跟踪的信号灯列表与顺序在创建时确定，决定输出列的顺序
type Recorder struct {
	interval int64
	signals  []entity.ISignal

	file    afero.File
	w       *bufio.Writer
	sinkErr error
}

// NewRecorder 创建信号灯记录器并写入文件头
// 参数：fs-文件系统，filename-已解析的输出文件路径，interval-采样间隔（迭代次数），signals-跟踪的信号灯
// 返回：记录器与错误信息
// 说明：
// 1. interval不为正时返回ErrInvalidArgument
// 2. 文件打开失败不返回错误，记录器退化为空操作，可通过SinkErr获取原因
// 3. 写入文件头时信号灯没有位置则返回信号灯的ErrInvalidState
func NewRecorder(fs afero.Fs, filename string, interval int64, signals []entity.ISignal) (*Recorder, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%w: sample interval %d must be positive", ErrInvalidArgument, interval)
	}
	r := &Recorder{
		interval: interval,
		signals:  append([]entity.ISignal(nil), signals...),
	}
	file, err := fs.Create(filename)
	if err != nil {
		r.sinkErr = fmt.Errorf("%w: %v", ErrSinkUnavailable, err)
		metrics.OutputErrors.WithLabelValues("file").Inc()
		log.Warnf("disable traffic light recorder: %v", r.sinkErr)
		return r, nil
	}
	r.file = file
	r.w = bufio.NewWriter(file)
	if err := r.writeHeader(); err != nil {
		r.Close()
		return nil, err
	}
	log.Infof("traffic light recorder writes to %s every %d steps", filename, interval)
	return r, nil
}

// SinkErr 文件打开或写入失败的原因，正常工作时为nil
func (r *Recorder) SinkErr() error {
	return r.sinkErr
}

// writeHeader 写入状态编码说明、各信号灯位置和列名
func (r *Recorder) writeHeader() error {
	if r.w == nil {
		return nil
	}
	positions := make([]float64, len(r.signals))
	for i, s := range r.signals {
		p, err := s.Position()
		if err != nil {
			return err
		}
		positions[i] = p
	}

	// 说明行以空格结尾，与已有日志文件逐字节一致
	fmt.Fprintf(r.w, "%s number codes for traffic lights status: \n", commentChar)
	fmt.Fprintf(r.w, "%s green         %d \n", commentChar, entity.StatusGreen)
	fmt.Fprintf(r.w, "%s green --> red %d \n", commentChar, entity.StatusGreenRed)
	fmt.Fprintf(r.w, "%s red           %d \n", commentChar, entity.StatusRed)
	fmt.Fprintf(r.w, "%s red --> green %d \n", commentChar, entity.StatusRedGreen)
	for i, p := range positions {
		fmt.Fprintf(r.w, "%s position of traffic light no. %d: %5s m\n", commentChar, i+1, fixed(p, 2))
	}
	fmt.Fprintf(r.w, "%s %-8s", commentChar, "time[s]")
	for i := range r.signals {
		fmt.Fprintf(r.w, "  %-15s  %-13s", fmt.Sprintf("position[m]_TL%d", i+1), fmt.Sprintf("status[1]_TL%d", i+1))
	}
	fmt.Fprintln(r.w)
	r.flush()
	return nil
}

// Update 每个仿真迭代调用一次
// 功能：迭代次数是采样间隔的整数倍时写入一行：时间，以及按顺序排列的各信号灯位置与状态编码
// 参数：iteration-迭代次数，t-仿真时间（s）
func (r *Recorder) Update(iteration int64, t float64) {
	if iteration%r.interval != 0 {
		return
	}
	if r.w == nil {
		return
	}
	fmt.Fprintf(r.w, "%8s   ", fixed(t, 2))
	for _, s := range r.signals {
		// 位置已在写文件头时检查过
		p, _ := s.Position()
		fmt.Fprintf(r.w, "%s  %d  ", fixed(p, 1), s.Status())
	}
	fmt.Fprintln(r.w)
	if r.flush() {
		metrics.RecordedRows.Inc()
	}
}

// fixed 按四舍五入保留places位小数
// 说明：以最短十进制表示为准，逢5进位；fmt的%f对恰好一半的值取偶，100.25会输出100.2
func fixed(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', int(places), 64)
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

// flush 将缓冲写入文件
// 说明：写入失败时关闭文件并停止记录，仿真继续进行
func (r *Recorder) flush() bool {
	if err := r.w.Flush(); err != nil {
		r.sinkErr = fmt.Errorf("%w: %v", ErrSinkUnavailable, err)
		metrics.OutputErrors.WithLabelValues("file").Inc()
		log.Errorf("stop traffic light recorder: %v", r.sinkErr)
		r.file.Close()
		r.file = nil
		r.w = nil
		return false
	}
	return true
}

// Close 关闭输出文件，可重复调用
func (r *Recorder) Close() error {
	if r.file == nil {
		return nil
	}
	r.w.Flush()
	err := r.file.Close()
	r.file = nil
	r.w = nil
	return err
}
