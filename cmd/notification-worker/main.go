package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/oncentra/registry/pkg/common/logger"
	"github.com/oncentra/registry/pkg/notify"
)

// The worker drains the notification topic and hands each message to the
// delivery handler. Delivery here is a structured log line; SMTP or webhook
// fan-out slots into deliver without touching the consume loop.
func main() {
	logger.Init()

	consumer := notify.NewConsumer("registry-notification-worker")
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Log.Info("shutting down notification worker")
		cancel()
	}()

	logger.Log.Info("notification worker started")
	if err := consumer.Consume(ctx, deliver); err != nil && err != context.Canceled {
		logger.Log.WithError(err).Error("consumer stopped")
	}
	logger.Log.Info("notification worker stopped")
}

func deliver(_ context.Context, n notify.Notification) error {
	logger.Log.WithFields(map[string]interface{}{
		"notification_id": n.ID,
		"to":              n.To,
		"subject":         n.Subject,
		"template":        n.Template,
	}).Info("notification delivered")
	return nil
}
