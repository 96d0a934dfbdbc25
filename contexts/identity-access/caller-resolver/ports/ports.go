package ports

import (
	"context"

	"boostfeed/contexts/identity-access/caller-resolver/domain/entities"
)

// CallerDirectory looks up platform users by their credential value.
type CallerDirectory interface {
	FindCaller(ctx context.Context, credential string) (entities.Caller, bool, error)
}
