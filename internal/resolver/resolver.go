package resolver

import (
	"context"
	"errors"
	"strconv"

	"github.com/nerrad567/birchhill-core/internal/infrastructure/logging"
	"github.com/nerrad567/birchhill-core/internal/paging"
	"github.com/nerrad567/birchhill-core/internal/reading"
	"github.com/nerrad567/birchhill-core/internal/room"
)

// Resolver dispatches operations to the repositories.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	rooms    room.Repository
	readings reading.Repository
	logger   *logging.Logger
	nodes    map[string]nodeLookup
}

// New creates a Resolver over the given repositories.
func New(rooms room.Repository, readings reading.Repository, logger *logging.Logger) *Resolver {
	r := &Resolver{
		rooms:    rooms,
		readings: readings,
		logger:   logger.With("component", "resolver"),
	}
	r.nodes = r.nodeLookups()
	return r
}

// RoomPayload is the result of a room mutation.
//
// Exactly one side is meaningful: Room is nil whenever Errors is non-empty,
// and Errors is empty (never nil) whenever Room is set.
type RoomPayload struct {
	Room   *room.Room
	Errors []string
}

// Room returns the room with the given ID.
func (r *Resolver) Room(ctx context.Context, id string) (*room.Room, error) {
	n, ok := parseID(id)
	if !ok {
		return nil, &room.NotFoundError{ID: id}
	}
	rm, err := r.rooms.FindByID(ctx, n)
	if err != nil {
		return nil, echoID(err, id)
	}
	return rm, nil
}

// Rooms returns a page of rooms in primary-key order.
func (r *Resolver) Rooms(ctx context.Context, args paging.Args) (paging.Page[room.Room], error) {
	rooms, err := r.rooms.ListAll(ctx)
	if err != nil {
		return paging.Page[room.Room]{}, err
	}
	return paging.Paginate(rooms, args)
}

// TemperatureReadings returns a page of a room's readings, newest first.
func (r *Resolver) TemperatureReadings(ctx context.Context, roomID string, args paging.Args) (paging.Page[reading.TemperatureReading], error) {
	n, ok := parseID(roomID)
	if !ok {
		return paging.Page[reading.TemperatureReading]{}, &room.NotFoundError{ID: roomID}
	}
	readings, err := r.readings.ListForRoom(ctx, n)
	if err != nil {
		return paging.Page[reading.TemperatureReading]{}, echoID(err, roomID)
	}
	return paging.Paginate(readings, args)
}

// CreateRoom persists a new room. Validation happens inside the persist call,
// so bad input and storage failures are reported the same way.
func (r *Resolver) CreateRoom(ctx context.Context, name string) RoomPayload {
	rm, err := r.rooms.Create(ctx, name)
	if err != nil {
		return r.failure(err)
	}
	return RoomPayload{Room: rm, Errors: []string{}}
}

// UpdateRoom renames a room. An unchanged name returns the stored room
// without writing.
func (r *Resolver) UpdateRoom(ctx context.Context, id, name string) RoomPayload {
	n, ok := parseID(id)
	if !ok {
		return r.failure(&room.NotFoundError{ID: id})
	}
	rm, err := r.rooms.Update(ctx, n, name)
	if err != nil {
		return r.failure(echoID(err, id))
	}
	return RoomPayload{Room: rm, Errors: []string{}}
}

// failure converts a mutation error into a payload.
func (r *Resolver) failure(err error) RoomPayload {
	var verr *room.ValidationError
	var nf *room.NotFoundError
	switch {
	case errors.As(err, &verr):
		return RoomPayload{Errors: append([]string{}, verr.Messages...)}
	case errors.As(err, &nf):
		return RoomPayload{Errors: []string{nf.Error()}}
	default:
		r.logger.Warn("room mutation failed", "error", err)
		return RoomPayload{Errors: []string{err.Error()}}
	}
}

// parseID converts a client-supplied ID to a row ID. Only unsigned decimal
// digits are accepted; leading zeros are allowed.
func parseID(id string) (int64, bool) {
	if id == "" || id[0] == '+' || id[0] == '-' {
		return 0, false
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// echoID rewrites a room NotFoundError to carry the ID exactly as the client
// sent it ("007" rather than "7").
func echoID(err error, id string) error {
	var nf *room.NotFoundError
	if errors.As(err, &nf) {
		return &room.NotFoundError{ID: id}
	}
	return err
}
