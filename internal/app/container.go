package app

import (
	"github.com/samber/do/v2"

	"github.com/nfrund/livechat/internal/chat"
	"github.com/nfrund/livechat/internal/config"
	"github.com/nfrund/livechat/internal/pubsub"
)

// NewContainer creates the injector holding the core services shared by all modules.
// Services are built lazily on first use; the bus is closed by the injector's shutdown.
func NewContainer(cfg *config.Config) *do.RootScope {
	i := do.New()

	do.ProvideValue(i, cfg)

	do.Provide(i, func(i do.Injector) (*pubsub.WatermillBridge, error) {
		return pubsub.NewWatermillBridge(pubsub.BridgeConfig{
			Debug: cfg.LogLevel == "debug",
		}), nil
	})

	do.Provide(i, func(i do.Injector) (*chat.Store, error) {
		return chat.NewStore(), nil
	})

	do.Provide(i, func(i do.Injector) (*chat.Channel, error) {
		bus, err := do.Invoke[*pubsub.WatermillBridge](i)
		if err != nil {
			return nil, err
		}
		return chat.NewChannel(bus, bus, cfg.SubscriberBuffer), nil
	})

	do.Provide(i, func(i do.Injector) (*chat.Service, error) {
		store, err := do.Invoke[*chat.Store](i)
		if err != nil {
			return nil, err
		}
		channel, err := do.Invoke[*chat.Channel](i)
		if err != nil {
			return nil, err
		}
		return chat.NewService(store, channel), nil
	})

	return i
}
