package feedranking

import (
	"log/slog"

	httpadapter "boostfeed/contexts/discovery/feed-ranking/adapters/http"
	"boostfeed/contexts/discovery/feed-ranking/adapters/memory"
	"boostfeed/contexts/discovery/feed-ranking/application/queries"
	"boostfeed/contexts/discovery/feed-ranking/domain/entities"
	"boostfeed/contexts/discovery/feed-ranking/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Catalog  ports.VideoCatalog
	Comments ports.CommentRepository
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			ListRanked: queries.ListRankedUseCase{
				Catalog: deps.Catalog,
				Logger:  deps.Logger,
			},
			GetVideo: queries.GetVideoUseCase{
				Catalog: deps.Catalog,
				Logger:  deps.Logger,
			},
			CommentThreads: queries.ListCommentThreadsUseCase{
				Comments: deps.Comments,
				Logger:   deps.Logger,
			},
			CommentReplies: queries.ListCommentRepliesUseCase{
				Comments: deps.Comments,
				Logger:   deps.Logger,
			},
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Video, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Catalog:  store,
		Comments: store,
		Logger:   logger,
	})
	module.Store = store
	return module
}
