package rabbitmq

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"

	"moodmatch/internal/model"
)

// ScanPublisher hands scan history rows to the persistence worker.
type ScanPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewScanPublisher(conn *amqp.Connection, queueName string) *ScanPublisher {
	return &ScanPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *ScanPublisher) PublishScan(ctx context.Context, scan model.EmotionScan) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if err := declareDurable(ch, p.queueName); err != nil {
		return err
	}

	payload, err := json.Marshal(scan)
	if err != nil {
		return fmt.Errorf("marshal scan payload failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    scan.ID,
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish scan failed: %w", err)
	}
	return nil
}
