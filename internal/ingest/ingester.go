package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/birchhill-core/internal/infrastructure/logging"
	"github.com/nerrad567/birchhill-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/birchhill-core/internal/metrics"
	"github.com/nerrad567/birchhill-core/internal/reading"
	"github.com/nerrad567/birchhill-core/internal/room"
)

// recordTimeout bounds the database write for one message.
const recordTimeout = 5 * time.Second

// Subscriber is the part of the MQTT client the ingester uses.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
}

// Mirror receives a copy of every stored reading. *influxdb.Client implements it.
type Mirror interface {
	WriteReading(roomID int64, temperature, humidity float64, recordedAt time.Time)
}

// Deps holds the ingester's collaborators. Mirror and Clock are optional.
type Deps struct {
	Subscriber Subscriber
	Readings   reading.Repository
	Mirror     Mirror
	Logger     *logging.Logger
	Topics     mqtt.Topics
	QoS        byte
	Clock      func() time.Time
}

// Ingester subscribes to reading topics and records what arrives.
type Ingester struct {
	sub      Subscriber
	readings reading.Repository
	mirror   Mirror
	logger   *logging.Logger
	topics   mqtt.Topics
	qos      byte
	now      func() time.Time

	mu      sync.Mutex
	ctx     context.Context //nolint:containedctx // Lifetime of the subscription
	cancel  context.CancelFunc
	running bool
}

// New validates deps and returns an ingester that is not yet subscribed.
func New(deps Deps) (*Ingester, error) {
	if deps.Subscriber == nil {
		return nil, fmt.Errorf("ingest: subscriber is required")
	}
	if deps.Readings == nil {
		return nil, fmt.Errorf("ingest: readings repository is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("ingest: logger is required")
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &Ingester{
		sub:      deps.Subscriber,
		readings: deps.Readings,
		mirror:   deps.Mirror,
		logger:   deps.Logger.With("component", "ingest"),
		topics:   deps.Topics,
		qos:      deps.QoS,
		now:      now,
	}, nil
}

// Start subscribes to every room's reading topic. Writes triggered by
// messages are cancelled once ctx is done or Stop is called.
func (i *Ingester) Start(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.running {
		return nil
	}

	i.ctx, i.cancel = context.WithCancel(ctx)
	topic := i.topics.AllReadings()
	if err := i.sub.Subscribe(topic, i.qos, i.HandleMessage); err != nil {
		i.cancel()
		return fmt.Errorf("subscribing to %s: %w", topic, err)
	}
	i.running = true

	i.logger.Info("reading ingestion started", "topic", topic)
	return nil
}

// Stop unsubscribes. It is safe to call more than once.
func (i *Ingester) Stop() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.running {
		return nil
	}
	i.running = false
	i.cancel()

	if err := i.sub.Unsubscribe(i.topics.AllReadings()); err != nil && !errors.Is(err, mqtt.ErrNotConnected) {
		return fmt.Errorf("unsubscribing readings: %w", err)
	}
	i.logger.Info("reading ingestion stopped")
	return nil
}

// HandleMessage records one reading message. Its signature matches
// mqtt.MessageHandler.
func (i *Ingester) HandleMessage(topic string, payload []byte) error {
	rawRoomID, ok := i.topics.ParseReading(topic)
	if !ok {
		metrics.ReadingsIngested.WithLabelValues(metrics.OutcomeRejected).Inc()
		return fmt.Errorf("%w: unexpected topic %q", ErrInvalidMessage, topic)
	}

	tr, err := decodeReading(rawRoomID, payload, i.now())
	if err != nil {
		metrics.ReadingsIngested.WithLabelValues(metrics.OutcomeRejected).Inc()
		i.logger.Warn("rejected reading message", "topic", topic, "error", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(i.baseContext(), recordTimeout)
	defer cancel()

	if err := i.readings.Record(ctx, tr); err != nil {
		if errors.Is(err, room.ErrNotFound) || errors.Is(err, reading.ErrInvalidReading) {
			metrics.ReadingsIngested.WithLabelValues(metrics.OutcomeRejected).Inc()
			i.logger.Warn("rejected reading", "topic", topic, "room_id", tr.RoomID, "error", err)
			return nil
		}
		metrics.ReadingsIngested.WithLabelValues(metrics.OutcomeError).Inc()
		return fmt.Errorf("recording reading for room %d: %w", tr.RoomID, err)
	}

	if i.mirror != nil {
		i.mirror.WriteReading(tr.RoomID, tr.Temperature, tr.Humidity, tr.RecordedAt)
	}
	metrics.ReadingsIngested.WithLabelValues(metrics.OutcomeSuccess).Inc()
	i.logger.Debug("reading recorded", "room_id", tr.RoomID, "reading_id", tr.ID)
	return nil
}

func (i *Ingester) baseContext() context.Context {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.ctx == nil {
		return context.Background()
	}
	return i.ctx
}
