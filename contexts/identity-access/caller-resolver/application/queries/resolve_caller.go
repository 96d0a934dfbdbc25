package queries

import (
	"context"
	"log/slog"
	"strings"

	application "boostfeed/contexts/identity-access/caller-resolver/application"
	"boostfeed/contexts/identity-access/caller-resolver/domain/entities"
	domainerrors "boostfeed/contexts/identity-access/caller-resolver/domain/errors"
	"boostfeed/contexts/identity-access/caller-resolver/ports"
)

type ResolveCallerUseCase struct {
	Directory ports.CallerDirectory
	Logger    *slog.Logger
}

// Execute resolves a request credential to a known user. Empty and unknown
// credentials fail the same way so callers cannot probe for valid ids.
func (u ResolveCallerUseCase) Execute(ctx context.Context, credential string) (entities.Caller, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return entities.Caller{}, domainerrors.ErrUnauthenticated
	}

	caller, found, err := u.Directory.FindCaller(ctx, credential)
	if err != nil {
		application.ResolveLogger(u.Logger).Error("caller lookup failed",
			"event", "caller_lookup_failed",
			"module", "identity-access/caller-resolver",
			"layer", "application",
			"error", err.Error(),
		)
		return entities.Caller{}, err
	}
	if !found {
		return entities.Caller{}, domainerrors.ErrUnauthenticated
	}
	return caller, nil
}
