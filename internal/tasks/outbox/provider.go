package outbox

import (
	"context"

	"cloud.google.com/go/pubsub"

	loader "github.com/bionicotaku/lingo-services-media/internal/infrastructure/config_loader"
	"github.com/bionicotaku/lingo-services-media/internal/repositories"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// ProviderSet exposes the outbox publisher for DI.
var ProviderSet = wire.NewSet(ProvidePublisherTask)

// ProvidePublisherTask builds the background publisher. An empty topic
// disables publishing: the task is nil and the cleanup is a no-op.
func ProvidePublisherTask(ctx context.Context, cfg loader.OutboxConfig, repo *repositories.OutboxRepository, logger log.Logger) (*PublisherTask, func(), error) {
	if cfg.TopicID == "" {
		log.NewHelper(logger).Info("outbox publisher disabled: no topic configured")
		return nil, func() {}, nil
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	topic := client.Topic(cfg.TopicID)

	task := NewPublisherTask(repo, topicPublisher{topic: topic}, Config{
		BatchSize:    cfg.BatchSize,
		TickInterval: cfg.TickIntervalOrDefault(),
		MaxAttempts:  cfg.MaxAttempts,
	}, logger)

	cleanup := func() {
		topic.Stop()
		_ = client.Close()
	}
	return task, cleanup, nil
}
