package consumer

import (
	"encoding/json"

	"github.com/greatbrands/ticketing/internal/notifier"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// NotificationConsumer drains the notification queue and hands each message
// to the configured delivery function. Email/SMS transports plug in behind
// deliver; the default just logs the delivery.
type NotificationConsumer struct {
	log     *logrus.Logger
	deliver func(notifier.Message)
}

func NewNotificationConsumer(log *logrus.Logger) *NotificationConsumer {
	nc := &NotificationConsumer{log: log}
	nc.deliver = nc.logDelivery
	return nc
}

// Start consumes until the channel closes.
func (nc *NotificationConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			nc.handleMessage(msg)
		}
		nc.log.Info("notification channel closed, stopping consumer")
	}()
}

func (nc *NotificationConsumer) handleMessage(msg amqp.Delivery) {
	var m notifier.Message
	if err := json.Unmarshal(msg.Body, &m); err != nil {
		nc.log.WithError(err).Warn("malformed notification, dropping")
		msg.Nack(false, false)
		return
	}

	nc.deliver(m)
	msg.Ack(false)
}

func (nc *NotificationConsumer) logDelivery(m notifier.Message) {
	nc.log.WithFields(logrus.Fields{
		"notification_id": m.ID,
		"user_id":         m.UserID,
		"subject":         m.Subject,
	}).Info("notification delivered")
}
