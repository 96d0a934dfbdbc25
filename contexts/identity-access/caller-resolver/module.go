package callerresolver

import (
	"log/slog"

	"boostfeed/contexts/identity-access/caller-resolver/adapters/memory"
	"boostfeed/contexts/identity-access/caller-resolver/application/queries"
	"boostfeed/contexts/identity-access/caller-resolver/domain/entities"
	"boostfeed/contexts/identity-access/caller-resolver/ports"
)

type Module struct {
	Resolver queries.ResolveCallerUseCase
	Store    *memory.Store
}

type Dependencies struct {
	Directory ports.CallerDirectory
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Resolver: queries.ResolveCallerUseCase{
			Directory: deps.Directory,
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Caller, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Directory: store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
