package replay

import (
	"context"
	"errors"
	"strings"

	"famiverse/internal/app/ports"
	"famiverse/internal/domain/familiar"
)

var ErrInvalidRequest = errors.New("invalid replay request")

// UseCase lists a familiar's journaled history (care, decay, mutations,
// cycles, biome changes) for the HUD timeline.
type UseCase struct {
	Events ports.EventRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.FamiliarID) == "" {
		return Response{}, ErrInvalidRequest
	}
	events, err := u.Events.ListByFamiliarID(ctx, req.FamiliarID, req.Limit)
	if err != nil {
		return Response{}, err
	}
	return Response{Events: filterByTimeWindow(events, req.OccurredFrom, req.OccurredTo)}, nil
}

func filterByTimeWindow(events []familiar.Event, from, to int64) []familiar.Event {
	if from <= 0 && to <= 0 {
		return events
	}
	out := make([]familiar.Event, 0, len(events))
	for _, evt := range events {
		ts := evt.OccurredAt.Unix()
		if from > 0 && ts < from {
			continue
		}
		if to > 0 && ts > to {
			continue
		}
		out = append(out, evt)
	}
	return out
}
