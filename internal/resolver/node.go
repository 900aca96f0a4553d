package resolver

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/nerrad567/birchhill-core/internal/reading"
	"github.com/nerrad567/birchhill-core/internal/room"
)

// Type tags used in global IDs.
const (
	TypeRoom               = "Room"
	TypeTemperatureReading = "TemperatureReading"
)

// nodeLookup loads one entity by row ID. It returns (nil, nil) for a missing row.
type nodeLookup func(ctx context.Context, id int64) (any, error)

func (r *Resolver) nodeLookups() map[string]nodeLookup {
	return map[string]nodeLookup{
		TypeRoom: func(ctx context.Context, id int64) (any, error) {
			rm, err := r.rooms.FindByID(ctx, id)
			if errors.Is(err, room.ErrNotFound) {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			return rm, nil
		},
		TypeTemperatureReading: func(ctx context.Context, id int64) (any, error) {
			tr, err := r.readings.FindByID(ctx, id)
			if errors.Is(err, reading.ErrNotFound) {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			return tr, nil
		},
	}
}

// GlobalID builds the node ID for an entity, e.g. "Room:3".
func GlobalID(typeTag string, id int64) string {
	return typeTag + ":" + strconv.FormatInt(id, 10)
}

// Node resolves a global ID to *room.Room or *reading.TemperatureReading.
// Malformed IDs, unknown type tags and missing rows all give nil with no error.
func (r *Resolver) Node(ctx context.Context, globalID string) (any, error) {
	typeTag, raw, ok := strings.Cut(globalID, ":")
	if !ok {
		return nil, nil
	}
	lookup, ok := r.nodes[typeTag]
	if !ok {
		return nil, nil
	}
	id, ok := parseID(raw)
	if !ok {
		return nil, nil
	}
	return lookup(ctx, id)
}

// Nodes resolves each ID in order. Unresolvable IDs leave a nil entry.
func (r *Resolver) Nodes(ctx context.Context, globalIDs []string) ([]any, error) {
	out := make([]any, len(globalIDs))
	for i, id := range globalIDs {
		n, err := r.Node(ctx, id)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
