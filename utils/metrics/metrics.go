// 信号灯模块的Prometheus指标
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// PhaseSwitches 各信控组的相位切换次数
	PhaseSwitches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "signalsim",
		Name:      "phase_switches_total",
		Help:      "Number of phase switches per traffic light group.",
	}, []string{"group"})

	// RecordedRows 信号灯记录文件写入的数据行数
	RecordedRows = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "signalsim",
		Name:      "recorded_rows_total",
		Help:      "Number of sample rows written to the traffic light log.",
	})

	// ArchivedSamples 写入MongoDB的采样文档数
	ArchivedSamples = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "signalsim",
		Name:      "archived_samples_total",
		Help:      "Number of sample documents written to MongoDB.",
	})

	// OutputErrors 输出失败次数（文件或数据库）
	OutputErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "signalsim",
		Name:      "output_errors_total",
		Help:      "Number of failed output operations per sink.",
	}, []string{"sink"})
)

// Serve 启动指标HTTP服务
// 参数：addr-监听地址，例如:9090
// 返回：服务退出时的错误
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
