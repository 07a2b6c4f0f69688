package commands

import (
	"context"

	"github.com/google/uuid"
	sharedApplication "github.com/kaiwenho/fixnest/internal/shared/application"
	sharedDomain "github.com/kaiwenho/fixnest/internal/shared/domain"
	"github.com/kaiwenho/fixnest/internal/shared/infrastructure/outbox"
)

// stageEvents drains an aggregate's recorded events into the outbox within
// the ambient transaction, stamping them with the acting party.
func stageEvents(ctx context.Context, repo outbox.Repository, actorID uuid.UUID, root sharedDomain.AggregateRoot) error {
	events := root.DomainEvents()
	if len(events) == 0 {
		return nil
	}

	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(actorID))

	msgs, err := outbox.FromEvents(events)
	if err != nil {
		return err
	}
	root.ClearDomainEvents()

	return repo.SaveBatch(ctx, msgs)
}
