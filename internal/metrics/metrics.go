package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type contextKey string

const recorderKey = contextKey("metrics")

// Recorder holds the counters of a single toolkit run in its own registry.
// Recorder 在独立的注册表中保存一次运行的计数器。
type Recorder struct {
	registry *prometheus.Registry

	// Records counts log records by outcome: kept, skipped, filtered.
	Records *prometheus.CounterVec
	// VersionBumps counts computed versions by kind: initial, increment, reset.
	VersionBumps *prometheus.CounterVec
	// XMLBytes counts XML bytes by direction: in, out.
	XMLBytes *prometheus.CounterVec
	// RunErrors counts fatal errors by tool.
	RunErrors *prometheus.CounterVec
}

// New creates a Recorder with all toolkit counters registered.
// New 创建注册了全部计数器的 Recorder。
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		Records: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nicetoolkit_records_total",
				Help: "Log records processed by the extractor",
			},
			[]string{"result"},
		),
		VersionBumps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nicetoolkit_version_bumps_total",
				Help: "Versions computed by the bumper",
			},
			[]string{"kind"},
		),
		XMLBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nicetoolkit_xml_bytes_total",
				Help: "XML bytes read and written by the formatter",
			},
			[]string{"direction"},
		),
		RunErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nicetoolkit_run_errors_total",
				Help: "Runs that ended with a fatal error",
			},
			[]string{"tool"},
		),
	}
}

// Registry exposes the underlying registry as a gatherer.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the metrics in text exposition format for the node_exporter
// textfile collector. The file is replaced atomically.
// WriteTextfile 以文本格式写出指标，供 node_exporter textfile 收集器使用，文件原子替换。
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

// WithContext attaches the recorder to ctx.
// WithContext 将 Recorder 附加到 ctx。
func WithContext(ctx context.Context, r *Recorder) context.Context {
	return context.WithValue(ctx, recorderKey, r)
}

// FromContext returns the recorder in ctx, or a fresh unattached one.
// FromContext 返回 ctx 中的 Recorder，不存在时返回一个新的独立实例。
func FromContext(ctx context.Context) *Recorder {
	if ctx != nil {
		if r, ok := ctx.Value(recorderKey).(*Recorder); ok {
			return r
		}
	}
	return New()
}
