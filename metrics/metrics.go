package metrics

import (
	"context"
	"time"

	"contrib.go.opencensus.io/exporter/stackdriver"
	log "github.com/sirupsen/logrus"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

// Metric names. The unit (Incr / Count / Latency / Bytes) prefixes every name.
const (
	IncrMiningRunCount         = "mining_run_count"
	IncrMiningRunAborted       = "mining_run_aborted"
	LatencyMiningRun           = "mining_run_latency"
	CountMiningCandidates      = "mining_candidates_count"
	CountMiningMaximalPatterns = "mining_maximal_patterns_count"

	IncrResultStoreCacheHit  = "result_store_cache_hit"
	IncrResultStoreCacheMiss = "result_store_cache_miss"
	BytesResultsFile         = "results_file_size"
	BytesSequencesFile       = "sequences_file_size"
)

var (
	runLatencyMs = stats.Float64("run_latency", "Latency of a mining run or store call in milliseconds", stats.UnitMilliseconds)
	counter      = stats.Int64("counter", "Number of events or items observed", stats.UnitDimensionless)
	objectBytes  = stats.Float64("object_bytes", "Size of a dataset or results object in bytes", stats.UnitBytes)

	// MetricNameTag carries the metric name. Dashboards filter on it.
	MetricNameTag, _ = tag.NewKey("metric_name")
)

func views() []*view.View {
	return []*view.View{
		{
			Name:        "run_latency_view",
			Measure:     runLatencyMs,
			Description: "Distribution of run latencies",
			// Stackdriver ignores the buckets but the export fails without them.
			Aggregation: view.Distribution(0, 50, 100, 250, 500, 1000, 5000, 30000),
			TagKeys:     []tag.Key{MetricNameTag},
		},
		{
			Name:        "counter_view",
			Measure:     counter,
			Description: "Sum of counted events",
			Aggregation: view.Sum(),
			TagKeys:     []tag.Key{MetricNameTag},
		},
		{
			Name:        "object_bytes_view",
			Measure:     objectBytes,
			Description: "Distribution of stored object sizes",
			Aggregation: view.Distribution(0, 1<<10, 1<<14, 1<<20, 1<<24),
			TagKeys:     []tag.Key{MetricNameTag},
		},
	}
}

// GenericTask is the monitored resource attached to every exported series.
// https://cloud.google.com/monitoring/api/resources#tag_generic_task
type GenericTask struct {
	ProjectID string
	Location  string
	Namespace string
	Job       string
	TaskID    string
}

// MonitoredResource implements stackdriver's monitoredresource.Interface.
func (gt *GenericTask) MonitoredResource() (resType string, labels map[string]string) {
	return "generic_task", map[string]string{
		"project_id": gt.ProjectID,
		"location":   gt.Location,
		"namespace":  gt.Namespace,
		"job":        gt.Job,
		"task_id":    gt.TaskID,
	}
}

// InitMetrics registers the views and starts the stackdriver exporter.
// Returns nil in development or when the exporter cannot be started;
// recording without an exporter is a no-op.
func InitMetrics(env, appName, projectID, projectLocation string) *stackdriver.Exporter {
	if env == "development" || projectID == "" {
		return nil
	}
	logCtx := log.WithFields(log.Fields{"Tag": "Metrics", "app": appName})
	logCtx.Info("Initializing metrics exporter.")

	if err := view.Register(views()...); err != nil {
		logCtx.WithError(err).Error("Failed to register views.")
		return nil
	}

	exporter, err := stackdriver.NewExporter(stackdriver.Options{
		ProjectID:         projectID,
		MetricPrefix:      "custom.googleapis.com/" + appName + "/",
		ReportingInterval: time.Minute,
		MonitoredResource: &GenericTask{
			ProjectID: projectID,
			Location:  projectLocation,
			Namespace: env,
			Job:       appName,
			TaskID:    appName,
		},
		Context: context.Background(),
		Timeout: 30 * time.Second,
	})
	if err != nil {
		logCtx.WithError(err).Error("Failed to create exporter.")
		return nil
	}
	view.SetReportingPeriod(time.Minute)

	if err := exporter.StartMetricsExporter(); err != nil {
		logCtx.WithError(err).Error("Failed to start exporter.")
		return nil
	}
	return exporter
}

func record(metricName string, m stats.Measurement) {
	ctx, err := tag.New(context.Background(), tag.Upsert(MetricNameTag, metricName))
	if err != nil {
		log.WithError(err).WithField("metric", metricName).Error("Failed to tag metric.")
		return
	}
	stats.Record(ctx, m)
}

// Increment adds 1 to the given counter.
func Increment(metricName string) {
	CountInt(metricName, 1)
}

// CountInt adds count to the given counter.
func CountInt(metricName string, count int64) {
	record(metricName, counter.M(count))
}

// RecordLatency records latency in ms.
func RecordLatency(metricName string, latency float64) {
	record(metricName, runLatencyMs.M(latency))
}

// RecordBytesSize records the size of a stored object.
func RecordBytesSize(metricName string, bytes float64) {
	record(metricName, objectBytes.M(bytes))
}
