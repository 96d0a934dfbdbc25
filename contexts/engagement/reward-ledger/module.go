package rewardledger

import (
	"log/slog"

	httpadapter "boostfeed/contexts/engagement/reward-ledger/adapters/http"
	"boostfeed/contexts/engagement/reward-ledger/adapters/memory"
	"boostfeed/contexts/engagement/reward-ledger/application/commands"
	"boostfeed/contexts/engagement/reward-ledger/application/workers"
	"boostfeed/contexts/engagement/reward-ledger/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Relay   workers.OutboxRelay
	Store   *memory.Store
}

type Dependencies struct {
	Ledger    ports.Ledger
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	grantUseCase := commands.GrantWatchRewardUseCase{
		Ledger: deps.Ledger,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			GrantReward: grantUseCase,
			Logger:      deps.Logger,
		},
		Relay: workers.OutboxRelay{
			Outbox:    deps.Outbox,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Topic:     "reward.xp_granted",
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []ports.VideoProjection, publisher ports.EventPublisher, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Ledger:    store,
		Outbox:    store,
		Publisher: publisher,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
