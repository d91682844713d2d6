package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
	"gorm.io/gorm"

	"github.com/agilizaos/consert-api/models"
)

// MessageWriter is the part of the Kafka writer the notifier needs,
// extracted so tests can substitute a mock.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter builds the writer for the notification topic.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

// EnqueueNotification writes an outbox row inside the caller's transaction.
// The row becomes visible to the dispatcher only when the order update it
// describes commits, so a notification is never sent for a rolled-back
// change.
func EnqueueNotification(tx *gorm.DB, order *models.Order, tipo, status string) error {
	row := models.PendingNotification{
		OSID:      order.ID,
		EmpresaID: order.EmpresaID,
		Tipo:      tipo,
		Status:    status,
	}
	if err := tx.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}
	return nil
}

// notificationEvent is the message body published to the broker.
type notificationEvent struct {
	OSID      string `json:"os_id"`
	NumeroOS  string `json:"numero_os,omitempty"`
	EmpresaID string `json:"empresa_id"`
	Tipo      string `json:"tipo"`
	Status    string `json:"status,omitempty"`
}

// Notifier publishes pending outbox rows to the messaging broker. Delivery
// is best effort per flush: failures are logged, the attempt counter grows,
// and the retry loop tries again until maxAttempts.
type Notifier struct {
	db          *gorm.DB
	writer      MessageWriter
	maxAttempts int
}

var notifierInstance *Notifier

// NewNotifier creates a notifier over the given database and writer.
func NewNotifier(db *gorm.DB, writer MessageWriter) *Notifier {
	return &Notifier{db: db, writer: writer, maxAttempts: 5}
}

// GetNotifier returns the initialized notifier instance
func GetNotifier() *Notifier {
	return notifierInstance
}

// SetNotifier sets the notifier instance (primarily for testing)
func SetNotifier(n *Notifier) {
	notifierInstance = n
}

// Flush publishes every unsent outbox row that still has attempts left.
// Each row is marked sent on success; on failure the error is recorded and
// the row is left for the next flush.
func (n *Notifier) Flush(ctx context.Context) error {
	var pending []models.PendingNotification
	if err := n.db.Where("sent_at IS NULL AND attempts < ?", n.maxAttempts).
		Order("created_at").Find(&pending).Error; err != nil {
		return fmt.Errorf("failed to load pending notifications: %w", err)
	}

	for i := range pending {
		row := &pending[i]
		if err := n.publish(ctx, row); err != nil {
			log.Printf("notification %s (os %s) publish failed: %v", row.ID, row.OSID, err)
			n.db.Model(row).Updates(map[string]interface{}{
				"attempts":   row.Attempts + 1,
				"last_error": err.Error(),
			})
			continue
		}
		now := time.Now().UTC()
		if err := n.db.Model(row).Updates(map[string]interface{}{
			"sent_at":  now,
			"attempts": row.Attempts + 1,
		}).Error; err != nil {
			log.Printf("failed to mark notification %s sent: %v", row.ID, err)
		}
	}
	return nil
}

func (n *Notifier) publish(ctx context.Context, row *models.PendingNotification) error {
	event := notificationEvent{
		OSID:      row.OSID,
		EmpresaID: row.EmpresaID,
		Tipo:      row.Tipo,
		Status:    row.Status,
	}
	var order models.Order
	if err := n.db.Select("numero_os").Where("id = ?", row.OSID).First(&order).Error; err == nil {
		event.NumeroOS = order.NumeroOS
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode notification event: %w", err)
	}
	return n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(row.OSID),
		Value: body,
	})
}

// FlushAsync runs a flush on its own goroutine. Used by request handlers
// after commit so delivery latency never reaches the caller.
func (n *Notifier) FlushAsync() {
	go func() {
		if err := n.Flush(context.Background()); err != nil {
			log.Printf("notification flush failed: %v", err)
		}
	}()
}

// Start runs the retry loop until the context is cancelled.
func (n *Notifier) Start(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := n.Flush(ctx); err != nil {
				log.Printf("notification flush failed: %v", err)
			}
		}
	}
}

// Close releases the underlying writer.
func (n *Notifier) Close() error {
	return n.writer.Close()
}
