package observability

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

const (
	defaultFlushInterval = 10 * time.Second
	defaultBatchSize     = 500
	// CloudWatch accepts at most this many datums per PutMetricData call
	maxDatumsPerRequest = 1000
	flushTimeout        = 5 * time.Second
)

// MetricsAPI is the part of the CloudWatch client Metrics uses
type MetricsAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Metrics handles application metrics. Datums are buffered and sent in
// batches by a background loop, when the buffer fills, or on Flush.
// A Metrics without a client records nothing.
type Metrics struct {
	namespace string
	client    MetricsAPI
	logger    *zap.Logger
	batchSize int

	mu     sync.Mutex
	buffer []types.MetricDatum

	flushCh   chan struct{}
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// NewMetrics creates a new metrics instance
func NewMetrics(namespace string, client MetricsAPI, logger *zap.Logger) *Metrics {
	return newMetrics(namespace, client, logger, defaultFlushInterval, defaultBatchSize)
}

func newMetrics(namespace string, client MetricsAPI, logger *zap.Logger, interval time.Duration, batchSize int) *Metrics {
	if batchSize <= 0 || batchSize > maxDatumsPerRequest {
		batchSize = maxDatumsPerRequest
	}
	m := &Metrics{
		namespace: namespace,
		client:    client,
		logger:    logger,
		batchSize: batchSize,
		flushCh:   make(chan struct{}, 1),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	if client == nil {
		close(m.stopped)
		return m
	}
	go m.run(interval)
	return m
}

// RecordCommandExecution records latency and outcome of a use case
func (m *Metrics) RecordCommandExecution(ctx context.Context, name string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	dims := []types.Dimension{
		{Name: aws.String("Operation"), Value: aws.String(name)},
		{Name: aws.String("Status"), Value: aws.String(status)},
	}
	now := time.Now()

	m.put(
		types.MetricDatum{
			MetricName: aws.String("OperationLatency"),
			Dimensions: dims,
			Value:      aws.Float64(float64(duration.Milliseconds())),
			Unit:       types.StandardUnitMilliseconds,
			Timestamp:  aws.Time(now),
		},
		types.MetricDatum{
			MetricName: aws.String("OperationCount"),
			Dimensions: dims,
			Value:      aws.Float64(1),
			Unit:       types.StandardUnitCount,
			Timestamp:  aws.Time(now),
		},
	)
}

// RecordCacheOutcome counts a cache hit, miss or degraded call
func (m *Metrics) RecordCacheOutcome(ctx context.Context, keyspace, outcome string) {
	m.put(types.MetricDatum{
		MetricName: aws.String("CacheOutcome"),
		Dimensions: []types.Dimension{
			{Name: aws.String("Keyspace"), Value: aws.String(keyspace)},
			{Name: aws.String("Outcome"), Value: aws.String(outcome)},
		},
		Value:     aws.Float64(1),
		Unit:      types.StandardUnitCount,
		Timestamp: aws.Time(time.Now()),
	})
}

func (m *Metrics) put(data ...types.MetricDatum) {
	if m == nil || m.client == nil {
		return
	}
	m.mu.Lock()
	m.buffer = append(m.buffer, data...)
	full := len(m.buffer) >= m.batchSize
	m.mu.Unlock()

	if full {
		select {
		case m.flushCh <- struct{}{}:
		default:
		}
	}
}

// Flush sends every buffered datum to CloudWatch
func (m *Metrics) Flush(ctx context.Context) {
	if m == nil || m.client == nil {
		return
	}
	m.mu.Lock()
	pending := m.buffer
	m.buffer = nil
	m.mu.Unlock()

	for start := 0; start < len(pending); start += maxDatumsPerRequest {
		end := start + maxDatumsPerRequest
		if end > len(pending) {
			end = len(pending)
		}
		_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(m.namespace),
			MetricData: pending[start:end],
		})
		if err != nil {
			m.logger.Warn("Failed to send metrics",
				zap.Int("datums", end-start),
				zap.Error(err),
			)
		}
	}
}

// Close stops the background loop after a final flush
func (m *Metrics) Close() {
	if m == nil {
		return
	}
	m.closeOnce.Do(func() { close(m.done) })
	<-m.stopped
}

func (m *Metrics) run(interval time.Duration) {
	defer close(m.stopped)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.flushWithTimeout()
		case <-m.flushCh:
			m.flushWithTimeout()
		case <-m.done:
			m.flushWithTimeout()
			return
		}
	}
}

func (m *Metrics) flushWithTimeout() {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	m.Flush(ctx)
}
