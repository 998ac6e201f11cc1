package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

const (
	writeTimeout = 2 * time.Second

	headerEventID   = "event_id"
	headerEventType = "event_type"
)

var (
	// ErrMarshal возвращается, когда событие не удалось сериализовать
	ErrMarshal = errors.New("events.producer: failed to marshal event")

	// ErrWrite возвращается при ошибке записи в Kafka
	ErrWrite = errors.New("events.producer: failed to write message")
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer публикует события о записях в Kafka
// Ключ сообщения - ID записи, поэтому события одной записи попадают в одну партицию
type Producer struct {
	writer messageWriter
	now    func() time.Time
}

// NewProducer создает producer для указанного топика
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: writeTimeout,
	}
	return &Producer{writer: writer, now: time.Now}
}

// Publish отправляет событие eventType со снимком записи
func (p *Producer) Publish(ctx context.Context, eventType string, a *domain.Appointment) error {
	event := Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		OccurredAt:  p.now().UTC(),
		Appointment: newPayload(a),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMarshal, err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(a.ID, 10)),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: headerEventID, Value: []byte(event.ID)},
			{Key: headerEventType, Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: event=%s appointment=%d: %v", ErrWrite, eventType, a.ID, err)
	}

	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// NoopPublisher используется, когда брокеры не настроены
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, *domain.Appointment) error { return nil }

func (NoopPublisher) Close() error { return nil }

// SplitBrokers разбирает список брокеров через запятую
func SplitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
