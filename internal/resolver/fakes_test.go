package resolver

import (
	"context"
	"strconv"
	"time"

	"github.com/nerrad567/birchhill-core/internal/reading"
	"github.com/nerrad567/birchhill-core/internal/room"
)

// fakeRooms is an in-memory room.Repository.
type fakeRooms struct {
	rooms   []room.Room
	now     time.Time
	failErr error // returned by Create and Update when set
	writes  int
}

func (f *fakeRooms) FindByID(_ context.Context, id int64) (*room.Room, error) {
	for i := range f.rooms {
		if f.rooms[i].ID == id {
			rm := f.rooms[i]
			return &rm, nil
		}
	}
	return nil, &room.NotFoundError{ID: strconv.FormatInt(id, 10)}
}

func (f *fakeRooms) ListAll(context.Context) ([]room.Room, error) {
	return append([]room.Room{}, f.rooms...), nil
}

func (f *fakeRooms) Create(_ context.Context, name string) (*room.Room, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	if msgs := room.Validate(name); len(msgs) > 0 {
		return nil, &room.ValidationError{Messages: msgs}
	}
	f.writes++
	f.now = f.now.Add(time.Second)
	rm := room.Room{ID: int64(len(f.rooms) + 1), Name: name, CreatedAt: f.now, UpdatedAt: f.now}
	f.rooms = append(f.rooms, rm)
	return &rm, nil
}

func (f *fakeRooms) Update(ctx context.Context, id int64, name string) (*room.Room, error) {
	rm, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rm.Name == name {
		return rm, nil
	}
	if f.failErr != nil {
		return nil, f.failErr
	}
	if msgs := room.Validate(name); len(msgs) > 0 {
		return nil, &room.ValidationError{Messages: msgs}
	}
	f.writes++
	f.now = f.now.Add(time.Second)
	for i := range f.rooms {
		if f.rooms[i].ID == id {
			f.rooms[i].Name = name
			f.rooms[i].UpdatedAt = f.now
			updated := f.rooms[i]
			return &updated, nil
		}
	}
	return nil, &room.NotFoundError{ID: strconv.FormatInt(id, 10)}
}

// fakeReadings is an in-memory reading.Repository keyed by room.
type fakeReadings struct {
	rooms   *fakeRooms
	byRoom  map[int64][]reading.TemperatureReading // already newest first
	failErr error
}

func (f *fakeReadings) ListForRoom(ctx context.Context, roomID int64) ([]reading.TemperatureReading, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	if _, err := f.rooms.FindByID(ctx, roomID); err != nil {
		return nil, err
	}
	return append([]reading.TemperatureReading{}, f.byRoom[roomID]...), nil
}

func (f *fakeReadings) FindByID(_ context.Context, id int64) (*reading.TemperatureReading, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	for _, list := range f.byRoom {
		for _, tr := range list {
			if tr.ID == id {
				return &tr, nil
			}
		}
	}
	return nil, &reading.NotFoundError{ID: id}
}

func (f *fakeReadings) Record(context.Context, *reading.TemperatureReading) error {
	return nil
}
