package mailer

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Dispatcher hands an email off for delivery.
type Dispatcher interface {
	Dispatch(ctx context.Context, job EmailJob) error
}

// Publisher is satisfied by helpers.RabbitPublisher.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueDispatcher publishes jobs for cmd/email_worker.
type QueueDispatcher struct {
	pub Publisher
}

func NewQueueDispatcher(pub Publisher) *QueueDispatcher {
	return &QueueDispatcher{pub: pub}
}

// Dispatch validates that the job renders before publishing it, so broken
// jobs fail the caller instead of the worker.
func (d *QueueDispatcher) Dispatch(ctx context.Context, job EmailJob) error {
	if _, _, _, err := job.Compose(); err != nil {
		return err
	}
	return d.pub.PublishJSON(ctx, job)
}

// LogDispatcher renders and logs emails instead of sending them.
type LogDispatcher struct {
	logger *logrus.Logger
}

func NewLogDispatcher(logger *logrus.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Dispatch(_ context.Context, job EmailJob) error {
	subject, text, _, err := job.Compose()
	if err != nil {
		return err
	}
	d.logger.WithFields(logrus.Fields{
		"to":       job.To,
		"template": job.Template,
		"subject":  subject,
	}).Info("email not sent (sending disabled)")
	d.logger.WithField("to", job.To).Debug(text)
	return nil
}
