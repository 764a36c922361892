package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rewardbot/config"
	"rewardbot/events"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// MetricsProvider records ledger activity as OpenTelemetry metrics
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	enabled       bool
	mu            sync.RWMutex

	accountsCreated      metric.Int64Counter
	balanceChanges       metric.Int64Counter
	balanceChangeAmount  metric.Int64Histogram
	keysGenerated        metric.Int64Counter
	keysClaimed          metric.Int64Counter
	referralsAwarded     metric.Int64Counter
	adminActions         metric.Int64Counter
	natsMessagesPublished metric.Int64Counter
}

func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{config: cfg}
}

// Initialize sets up the exporter chosen by configuration
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		return nil
	}
	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	var (
		exporter sdkmetric.Exporter
		err      error
	)
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case "otlp":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	reader := sdkmetric.NewPeriodicReader(
		exporter,
		sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
	)
	if err := mp.initializeWithReader(reader); err != nil {
		return err
	}
	otel.SetMeterProvider(mp.meterProvider)

	log.Info("Metrics provider initialized successfully")
	return nil
}

func (mp *MetricsProvider) initializeWithReader(reader sdkmetric.Reader) error {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	mp.meter = mp.meterProvider.Meter("rewardbot")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}
	mp.initialized = true
	mp.enabled = true
	return nil
}

func (mp *MetricsProvider) createInstruments() error {
	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
	}{
		{&mp.accountsCreated, AccountsCreatedTotal, "Total number of accounts created"},
		{&mp.balanceChanges, BalanceChangesTotal, "Total number of balance mutations"},
		{&mp.keysGenerated, KeysGeneratedTotal, "Total number of redemption keys generated"},
		{&mp.keysClaimed, KeysClaimedTotal, "Total number of redemption keys claimed"},
		{&mp.referralsAwarded, ReferralsAwardedTotal, "Total number of referral bonuses awarded"},
		{&mp.adminActions, AdminActionsTotal, "Total number of logged admin actions"},
		{&mp.natsMessagesPublished, NATSMessagesPublishedTotal, "Total number of NATS messages published"},
	}
	for _, c := range counters {
		counter, err := mp.meter.Int64Counter(c.name, metric.WithDescription(c.description), metric.WithUnit("1"))
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", c.name, err)
		}
		*c.target = counter
	}

	var err error
	mp.balanceChangeAmount, err = mp.meter.Int64Histogram(
		BalanceChangeAmount,
		metric.WithDescription("Absolute size of balance mutations in points"),
		metric.WithUnit("1"),
		metric.WithExplicitBucketBoundaries(1, 2, 5, 10, 15, 35, 50, 100, 500, 1000),
	)
	if err != nil {
		return fmt.Errorf("failed to create balance change histogram: %w", err)
	}
	return nil
}

// Shutdown flushes and stops the meter provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

func (mp *MetricsProvider) isEnabled() bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.enabled
}

// Register subscribes the provider to every event type on the bus
func (mp *MetricsProvider) Register(bus *events.Bus) {
	bus.SubscribeAll(mp.HandleEvent)
}

// HandleEvent records one committed domain event
func (mp *MetricsProvider) HandleEvent(ctx context.Context, event events.Event) {
	if !mp.isEnabled() {
		return
	}

	switch e := event.(type) {
	case events.AccountCreatedEvent:
		mp.accountsCreated.Add(ctx, 1)
	case events.BalanceChangeEvent:
		attrs := metric.WithAttributes(attribute.String(LabelReason, string(e.Reason)))
		mp.balanceChanges.Add(ctx, 1, attrs)
		amount := e.ChangeAmount
		if amount < 0 {
			amount = -amount
		}
		mp.balanceChangeAmount.Record(ctx, amount, attrs)
	case events.KeysGeneratedEvent:
		mp.keysGenerated.Add(ctx, int64(len(e.Codes)), metric.WithAttributes(attribute.String(LabelKind, string(e.Kind))))
	case events.KeyClaimedEvent:
		mp.keysClaimed.Add(ctx, 1, metric.WithAttributes(attribute.String(LabelKind, string(e.Kind))))
	case events.ReferralAwardedEvent:
		mp.referralsAwarded.Add(ctx, 1)
	case events.AdminActionEvent:
		mp.adminActions.Add(ctx, 1)
	}
}

// RecordNATSMessagePublished counts a forwarded event
func (mp *MetricsProvider) RecordNATSMessagePublished(eventType events.EventType) {
	if !mp.isEnabled() {
		return
	}
	mp.natsMessagesPublished.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelEventType, string(eventType))),
	)
}
