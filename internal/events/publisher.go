package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Publisher writes order events to Kafka through a buffered channel so the
// request path never blocks on the broker. A nil Publisher is valid and drops
// everything, which is how the service runs when no brokers are configured.
type Publisher struct {
	w        *kafka.Writer
	producer string
	inbox    chan kafka.Message
	closeCh  chan struct{}
}

func NewPublisher(brokers []string, topic, producer string, buf int) *Publisher {
	if len(brokers) == 0 {
		return nil
	}
	return &Publisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		producer: producer,
		inbox:    make(chan kafka.Message, buf),
		closeCh:  make(chan struct{}),
	}
}

// Start drains the inbox until ctx is cancelled, then flushes what is left.
func (p *Publisher) Start(ctx context.Context) {
	if p == nil {
		return
	}
	go func() {
		defer close(p.closeCh)
		for {
			select {
			case <-ctx.Done():
				close(p.inbox)
				for m := range p.inbox {
					p.write(m)
				}
				_ = p.w.Close()
				return
			case m, ok := <-p.inbox:
				if !ok {
					_ = p.w.Close()
					return
				}
				p.write(m)
			}
		}
	}()
}

func (p *Publisher) write(m kafka.Message) {
	if err := p.w.WriteMessages(context.Background(), m); err != nil {
		log.Println("[EVENTS] [ERROR] publish failed:", err)
	}
}

// WaitClosed blocks until the drain goroutine has exited.
func (p *Publisher) WaitClosed() {
	if p == nil {
		return
	}
	<-p.closeCh
}

func (p *Publisher) publish(eventType, key string, payload any) {
	if p == nil {
		return
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		log.Println("[EVENTS] [ERROR] payload marshal failed:", err)
		return
	}
	value, err := json.Marshal(Envelope{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     p.producer,
		Payload:      raw,
	})
	if err != nil {
		log.Println("[EVENTS] [ERROR] envelope marshal failed:", err)
		return
	}

	select {
	case p.inbox <- kafka.Message{Key: []byte(key), Value: value, Time: time.Now()}:
	default:
		log.Println("[EVENTS] [WARN] inbox full, dropping", eventType)
	}
}

// OrderCreated announces a newly placed order.
func (p *Publisher) OrderCreated(payload OrderCreatedPayload) {
	p.publish(EventOrderCreated, payload.OrderID, payload)
}

// ItemStatusChanged announces a line item status transition.
func (p *Publisher) ItemStatusChanged(payload ItemStatusChangedPayload) {
	p.publish(EventItemStatusChanged, payload.OrderID, payload)
}
