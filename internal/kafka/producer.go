package kafka

import (
	"context"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer writes to a single topic through a buffered inbox, so request
// handlers never block on the broker.
type Producer struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}
}

func NewProducer(brokers []string, topic string, buf int) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true,
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

// Start runs the flush loop. The loop exits once Close drains the inbox;
// ctx only scopes the writes themselves.
func (p *Producer) Start(ctx context.Context) {
	go func() {
		for m := range p.inbox {
			p.write(ctx, m)
		}
		_ = p.w.Close()
		close(p.closeCh)
	}()
}

func (p *Producer) write(ctx context.Context, m kafka.Message) {
	if ctx.Err() != nil {
		// shutting down; flush with a fresh context so buffered
		// messages still go out
		ctx = context.Background()
	}
	if err := p.w.WriteMessages(ctx, m); err != nil {
		log.Printf("kafka write %s: %v", p.w.Topic, err)
	}
}

func (p *Producer) Publish(key, value []byte, headers ...kafka.Header) {
	p.inbox <- kafka.Message{
		Key:     key,
		Value:   value,
		Time:    time.Now(),
		Headers: headers,
	}
}

// Close stops accepting messages; the flush loop drains what is buffered.
func (p *Producer) Close() { close(p.inbox) }

// WaitClosed blocks until the flush loop has exited.
func (p *Producer) WaitClosed() { <-p.closeCh }

// TopicPublishers routes a publish call to the producer owning that topic.
// It satisfies the marketplace event publisher port.
type TopicPublishers map[string]*Producer

func (t TopicPublishers) Publish(topic string, key, value []byte) {
	p, ok := t[topic]
	if !ok {
		log.Printf("kafka publish: no producer for topic %s", topic)
		return
	}
	p.Publish(key, value)
}

func (t TopicPublishers) Start(ctx context.Context) {
	for _, p := range t {
		p.Start(ctx)
	}
}

// Shutdown closes every producer, then waits for all flush loops.
func (t TopicPublishers) Shutdown() {
	for _, p := range t {
		p.Close()
	}
	for _, p := range t {
		p.WaitClosed()
	}
}
