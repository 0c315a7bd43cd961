package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/placement-portal/config"
	"github.com/oksasatya/placement-portal/pkg/helpers"
	"github.com/oksasatya/placement-portal/pkg/mailer"
)

// Sender delivers one rendered email.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// errPoison marks a message that can never be delivered.
var errPoison = errors.New("undeliverable message")

// handle renders and sends one queued EmailJob. A errPoison result means
// the message should be dropped; any other error is worth a retry.
func handle(ctx context.Context, sender Sender, body []byte) error {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: %v", errPoison, err)
	}
	subject, text, html, err := job.Compose()
	if err != nil {
		return fmt.Errorf("%w: %v", errPoison, err)
	}
	sendCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return sender.Send(sendCtx, job.To, subject, text, html)
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// Prefetch for fair dispatch across workers
	if err := ch.Qos(16, 0, false); err != nil {
		logger.Fatalf("qos: %v", err)
	}
	if _, err := ch.QueueDeclare(cfg.RabbitMQEmailQueue, true, false, false, false, nil); err != nil {
		logger.Fatalf("queue declare: %v", err)
	}
	msgs, err := ch.Consume(cfg.RabbitMQEmailQueue, "", false, false, false, false, nil)
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			err := handle(ctx, mg, msg.Body)
			switch {
			case err == nil:
				_ = msg.Ack(false)
			case errors.Is(err, errPoison):
				helpers.LogError(logger, "dropping email job", err, logrus.Fields{"delivery_tag": msg.DeliveryTag})
				_ = msg.Nack(false, false)
			default:
				helpers.LogError(logger, "send failed; requeueing", err, logrus.Fields{"delivery_tag": msg.DeliveryTag, "redelivered": msg.Redelivered})
				_ = msg.Nack(false, !msg.Redelivered)
			}
		}
	}()

	logger.Infof("email worker listening on queue=%s", cfg.RabbitMQEmailQueue)
	<-stop
	logger.Info("shutting down...")
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
