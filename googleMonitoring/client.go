package googlemonitoring

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	monitoring "cloud.google.com/go/monitoring/apiv3/v2"
	monitoringpb "cloud.google.com/go/monitoring/apiv3/v2/monitoringpb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	"google.golang.org/api/option"
	metricpb "google.golang.org/genproto/googleapis/api/metric"
	"google.golang.org/genproto/googleapis/api/monitoredres"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/llmgate/promptbrew/internal/config"
	"github.com/llmgate/promptbrew/internal/logger"
)

const customMetricPrefix = "custom.googleapis.com/"

// MonitoringClient owns the service's prometheus registry. When a GCP
// project is configured it also pushes the service metrics to Cloud
// Monitoring.
type MonitoringClient struct {
	projectId string
	client    *monitoring.MetricClient
	registry  *prometheus.Registry

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
}

func NewMonitoringClient(ctx context.Context, monitoringConfig config.MonitoringConfig) (*MonitoringClient, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	client, err := newMetricClient(ctx, monitoringConfig)
	if err != nil {
		return nil, err
	}

	return &MonitoringClient{
		projectId:  monitoringConfig.ProjectId,
		client:     client,
		registry:   registry,
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}, nil
}

// newMetricClient returns nil without a project; metrics are then only
// served locally.
func newMetricClient(ctx context.Context, monitoringConfig config.MonitoringConfig) (*monitoring.MetricClient, error) {
	if monitoringConfig.ProjectId == "" {
		return nil, nil
	}

	var opts []option.ClientOption
	// without a key, credentials come from the gcp service account
	if monitoringConfig.JsonKey != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(monitoringConfig.JsonKey)))
	}
	client, err := monitoring.NewMetricClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Monitoring client: %w", err)
	}
	return client, nil
}

func (c *MonitoringClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Handler serves the registry in the prometheus text format.
func (c *MonitoringClient) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *MonitoringClient) RecordCounter(metricName string, labels map[string]string, value float64) {
	names, values := splitLabels(labels)

	c.mu.Lock()
	vec, ok := c.counters[metricName]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{Name: metricName, Help: "Dynamically created counter"}, names)
		c.registry.MustRegister(vec)
		c.counters[metricName] = vec
	}
	c.mu.Unlock()

	vec.WithLabelValues(values...).Add(value)
}

func (c *MonitoringClient) RecordTimer(metricName string, labels map[string]string, duration time.Duration) {
	names, values := splitLabels(labels)

	c.mu.Lock()
	vec, ok := c.histograms[metricName]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    metricName,
			Help:    "Dynamically created histogram",
			Buckets: prometheus.DefBuckets,
		}, names)
		c.registry.MustRegister(vec)
		c.histograms[metricName] = vec
	}
	c.mu.Unlock()

	vec.WithLabelValues(values...).Observe(duration.Seconds())
}

// splitLabels sorts by name so values always line up with the label order a
// vec was created with.
func splitLabels(labels map[string]string) ([]string, []string) {
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make([]string, len(names))
	for i, name := range names {
		values[i] = labels[name]
	}
	return names, values
}

// RunPusher pushes metrics every interval until ctx is done.
func (c *MonitoringClient) RunPusher(ctx context.Context, interval time.Duration, log *logger.Logger) {
	if c.client == nil || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.PushMetrics(ctx); err != nil {
				log.Warn("Failed to push metrics", "error", err)
			}
		}
	}
}

// PushMetrics writes the current value of every service metric. It is a
// no-op when no project is configured or nothing has been recorded yet.
func (c *MonitoringClient) PushMetrics(ctx context.Context) error {
	if c.client == nil {
		return nil
	}

	series, err := c.timeSeries(time.Now())
	if err != nil || len(series) == 0 {
		return err
	}

	request := &monitoringpb.CreateTimeSeriesRequest{
		Name:       "projects/" + c.projectId,
		TimeSeries: series,
	}
	if err := c.client.CreateTimeSeries(ctx, request); err != nil {
		return fmt.Errorf("failed to write time series data: %w", err)
	}
	return nil
}

// timeSeries converts gathered metrics, skipping the runtime collectors.
func (c *MonitoringClient) timeSeries(now time.Time) ([]*monitoringpb.TimeSeries, error) {
	families, err := c.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}

	var series []*monitoringpb.TimeSeries
	for _, family := range families {
		name := family.GetName()
		if strings.HasPrefix(name, "go_") || strings.HasPrefix(name, "process_") {
			continue
		}
		for _, metric := range family.GetMetric() {
			value, ok := sampleValue(metric)
			if !ok {
				continue
			}
			series = append(series, c.point(name, metric.GetLabel(), value, now))
		}
	}
	return series, nil
}

func (c *MonitoringClient) point(name string, labelPairs []*dto.LabelPair, value float64, now time.Time) *monitoringpb.TimeSeries {
	labels := make(map[string]string, len(labelPairs))
	for _, pair := range labelPairs {
		labels[pair.GetName()] = pair.GetValue()
	}

	return &monitoringpb.TimeSeries{
		Metric: &metricpb.Metric{Type: customMetricPrefix + name, Labels: labels},
		Resource: &monitoredres.MonitoredResource{
			Type:   "global",
			Labels: map[string]string{"project_id": c.projectId},
		},
		Points: []*monitoringpb.Point{{
			Interval: &monitoringpb.TimeInterval{EndTime: timestamppb.New(now)},
			Value: &monitoringpb.TypedValue{
				Value: &monitoringpb.TypedValue_DoubleValue{DoubleValue: value},
			},
		}},
	}
}

// sampleValue reports counters and gauges as-is and histograms and summaries
// as their sample sum.
func sampleValue(metric *dto.Metric) (float64, bool) {
	switch {
	case metric.Counter != nil:
		return metric.Counter.GetValue(), true
	case metric.Gauge != nil:
		return metric.Gauge.GetValue(), true
	case metric.Histogram != nil:
		return metric.Histogram.GetSampleSum(), true
	case metric.Summary != nil:
		return metric.Summary.GetSampleSum(), true
	}
	return 0, false
}
