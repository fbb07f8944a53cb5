package notify

import (
	"context"
	"fmt"

	"github.com/exitflow/apiserver/config"
)

// NewBackend selects and constructs a Backend from config. An empty or
// "log" backend name degrades to log-only dispatch.
func NewBackend(ctx context.Context, cfg config.NotifyConfig) (Backend, error) {
	switch cfg.Backend {
	case "", config.NotifyBackendLog:
		return NewLogBackend(nil), nil
	case config.NotifyBackendRabbitMQ:
		return NewRabbitMQBackend(cfg.RabbitMQ)
	case config.NotifyBackendPubSub:
		return NewPubSubBackend(ctx, cfg.PubSub)
	default:
		return nil, fmt.Errorf("unknown notify backend %q", cfg.Backend)
	}
}
