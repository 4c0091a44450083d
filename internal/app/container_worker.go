package app

import (
	"go.uber.org/dig"

	"poslito/internal/config"
	"poslito/internal/logx"
	"poslito/internal/service/notifications"
	"poslito/internal/transport/kafka"
)

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		func(logger logx.Logger) notifications.Mailer {
			return notifications.NewLogMailer(logger)
		},
		notifications.NewProcessor,
		makeNotificationsHandler,
		func(cfg *config.Config, h kafka.HandleFunc, logger logx.Logger) (*kafka.Consumer, error) {
			return kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Group, cfg.Kafka.Topic, h, logger)
		},
	)
}

func makeNotificationsHandler(p *notifications.Processor) kafka.HandleFunc {
	return p.Handle
}
