package consumer

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/Eursukkul/staybook/internal/models"
	"github.com/Eursukkul/staybook/internal/repository"
	amqp "github.com/rabbitmq/amqp091-go"
	"gorm.io/datatypes"
)

const (
	ActivityQueue = "staybook.activity"
)

// ActivityBindings are the routing patterns recorded in the activity log.
var ActivityBindings = []string{"reservation.*", "property.*"}

type ActivityConsumer struct {
	repo repository.ActivityRepository
}

func NewActivityConsumer(repo repository.ActivityRepository) *ActivityConsumer {
	return &ActivityConsumer{repo: repo}
}

// Start records every delivery until msgs is closed.
func (ac *ActivityConsumer) Start(ctx context.Context, msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			ac.handleMessage(ctx, msg)
		}
		log.Println("[ActivityConsumer] channel closed, stopping consumer")
	}()
}

func (ac *ActivityConsumer) handleMessage(ctx context.Context, msg amqp.Delivery) {
	if !json.Valid(msg.Body) || msg.MessageId == "" {
		log.Printf("[ActivityConsumer] dropping malformed message on %s", msg.RoutingKey)
		msg.Nack(false, false)
		return
	}

	occurredAt := msg.Timestamp
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	entry := &models.ActivityEntry{
		MessageID:  msg.MessageId,
		RoutingKey: msg.RoutingKey,
		Payload:    datatypes.JSON(msg.Body),
		OccurredAt: occurredAt,
	}
	if err := ac.repo.Record(ctx, entry); err != nil {
		log.Printf("[ActivityConsumer] failed to record %s: %v", msg.MessageId, err)
		msg.Nack(false, true) // requeue
		return
	}

	msg.Ack(false)
}
