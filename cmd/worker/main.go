package main

import (
	"encoding/json"
	"log"

	"github.com/joho/godotenv"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/wrenchworks/repairshop-backend/internal/config"
	"github.com/wrenchworks/repairshop-backend/internal/db"
	"github.com/wrenchworks/repairshop-backend/internal/logger"
	"github.com/wrenchworks/repairshop-backend/internal/queue"
	"github.com/wrenchworks/repairshop-backend/internal/repository"
	"github.com/wrenchworks/repairshop-backend/internal/service"
	"github.com/wrenchworks/repairshop-backend/internal/telemetry"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}

	cfg := config.LoadEnv()

	zlog, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	sink := telemetry.NewZapSink(zlog, "worker")

	conn, err := db.Open(cfg.Postgres)
	if err != nil {
		zlog.Fatal("database unavailable", zap.Error(err))
	}
	defer conn.Close()

	notificationRepo := &repository.NotificationRepository{DB: conn}
	notifier := service.NewNotifier(notificationRepo, nil)

	mq, err := amqp.Dial(cfg.Queue.URL)
	if err != nil {
		zlog.Fatal("failed to connect to RabbitMQ", zap.Error(err))
	}
	defer mq.Close()

	ch, err := mq.Channel()
	if err != nil {
		zlog.Fatal("failed to open a channel", zap.Error(err))
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		cfg.Queue.QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		zlog.Fatal("failed to declare queue", zap.Error(err))
	}

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		zlog.Fatal("failed to register consumer", zap.Error(err))
	}

	zlog.Info("worker running, waiting for messages", zap.String("queue", q.Name))

	for d := range msgs {
		var job queue.Job
		if err := json.Unmarshal(d.Body, &job); err != nil {
			zlog.Warn("invalid job", zap.Error(err))
			d.Ack(false)
			continue
		}

		if err := notifier.Process(job.NotificationID); err != nil {
			sink.CaptureException(err, map[string]string{
				"op": "process_notification",
			})

			// retry_count on the notification row tracks attempts; give a
			// failing job one requeue, then drop it
			if !d.Redelivered {
				d.Nack(false, true)
				continue
			}
			zlog.Error("notification permanently failed",
				zap.Int("notification_id", job.NotificationID),
				zap.Error(err),
			)
		}

		d.Ack(false)
	}
}
