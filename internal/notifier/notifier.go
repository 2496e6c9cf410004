// Package notifier is the outbound side of the notification sink. Delivery
// is best-effort: the allocation service hands a message over after commit
// and never learns whether it arrived.
package notifier

import (
	"time"

	"github.com/google/uuid"
	"github.com/greatbrands/ticketing/pkg/rabbitmq"
	"github.com/sirupsen/logrus"
)

type Notifier interface {
	Notify(userID, subject, body string)
}

// Message is the wire format published for the delivery worker.
type Message struct {
	ID      string    `json:"id"`
	UserID  string    `json:"user_id"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	SentAt  time.Time `json:"sent_at"`
}

type amqpNotifier struct {
	publisher *rabbitmq.Publisher
	log       *logrus.Logger
}

func NewAMQPNotifier(publisher *rabbitmq.Publisher, log *logrus.Logger) Notifier {
	return &amqpNotifier{publisher: publisher, log: log}
}

// Notify publishes asynchronously. Failures are logged and swallowed; a
// lost notification never fails the booking or cancellation that caused it.
func (n *amqpNotifier) Notify(userID, subject, body string) {
	msg := Message{
		ID:      uuid.NewString(),
		UserID:  userID,
		Subject: subject,
		Body:    body,
		SentAt:  time.Now(),
	}

	go func() {
		if err := n.publisher.Publish("notify.user", msg); err != nil {
			n.log.WithFields(logrus.Fields{
				"user_id": userID,
				"subject": subject,
			}).WithError(err).Warn("notification dropped")
		}
	}()
}

type noopNotifier struct{}

// NewNoop returns a notifier that discards everything. Used when no broker
// is configured, and in tests.
func NewNoop() Notifier {
	return noopNotifier{}
}

func (noopNotifier) Notify(userID, subject, body string) {}
