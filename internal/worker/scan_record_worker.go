package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"moodmatch/internal/logging"
	"moodmatch/internal/model"
)

// ScanStore persists scan history rows.
type ScanStore interface {
	Create(ctx context.Context, scan *model.EmotionScan) error
}

var errMalformedScan = errors.New("malformed scan record")

// ScanRecordWorker drains the scan-record queue into the database.
type ScanRecordWorker struct {
	conn      *amqp.Connection
	store     ScanStore
	queueName string
	log       zerolog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScanRecordWorker(conn *amqp.Connection, store ScanStore, queueName string) *ScanRecordWorker {
	return &ScanRecordWorker{
		conn:      conn,
		store:     store,
		queueName: queueName,
		log:       logging.WithComponent("scan_record_worker"),
	}
}

func (w *ScanRecordWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	if _, err := ch.QueueDeclare(w.queueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}
	if err := ch.Qos(16, 0, false); err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("set worker qos failed: %w", err)
	}

	deliveries, err := ch.Consume(w.queueName, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				w.deliver(workerCtx, d)
			}
		}
	}()

	w.log.Info().Str("queue", w.queueName).Msg("scan record worker started")
	return nil
}

func (w *ScanRecordWorker) deliver(ctx context.Context, d amqp.Delivery) {
	err := w.handle(ctx, d.Body)
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, errMalformedScan):
		w.log.Error().Err(err).Msg("drop undecodable scan record")
		_ = d.Nack(false, false)
	default:
		// one retry through the queue, then drop.
		requeue := !d.Redelivered
		w.log.Error().Err(err).Bool("requeue", requeue).Msg("persist scan record failed")
		_ = d.Nack(false, requeue)
	}
}

func (w *ScanRecordWorker) handle(ctx context.Context, body []byte) error {
	var scan model.EmotionScan
	if err := json.Unmarshal(body, &scan); err != nil {
		return fmt.Errorf("%w: %v", errMalformedScan, err)
	}
	if scan.ID == "" || scan.UserID == 0 {
		return fmt.Errorf("%w: missing id or user", errMalformedScan)
	}
	return w.store.Create(ctx, &scan)
}

func (w *ScanRecordWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
