package resolver

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/nerrad567/birchhill-core/internal/infrastructure/config"
	"github.com/nerrad567/birchhill-core/internal/infrastructure/logging"
	"github.com/nerrad567/birchhill-core/internal/paging"
	"github.com/nerrad567/birchhill-core/internal/reading"
	"github.com/nerrad567/birchhill-core/internal/room"
)

var roomNames = []string{
	"Living room", "Family room", "Kitchen", "Pantry",
	"Dining room", "Home office", "Bedroom", "Bathroom",
}

func setup(t *testing.T) (*Resolver, *fakeRooms, *fakeReadings) {
	t.Helper()
	rooms := &fakeRooms{now: time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)}
	for _, n := range roomNames {
		if _, err := rooms.Create(context.Background(), n); err != nil {
			t.Fatalf("seeding %q: %v", n, err)
		}
	}
	rooms.writes = 0

	recorded := time.Date(2024, 1, 14, 12, 0, 0, 0, time.UTC)
	readings := &fakeReadings{
		rooms: rooms,
		byRoom: map[int64][]reading.TemperatureReading{
			1: {
				{ID: 2, RoomID: 1, Temperature: 22.1, Humidity: 40, RecordedAt: recorded.Add(2 * time.Hour)},
				{ID: 3, RoomID: 1, Temperature: 21.4, Humidity: 42, RecordedAt: recorded.Add(time.Hour)},
				{ID: 1, RoomID: 1, Temperature: 20.8, Humidity: 44, RecordedAt: recorded},
			},
		},
	}
	return New(rooms, readings, logging.Discard()), rooms, readings
}

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func roomNamesOf(p paging.Page[room.Room]) []string {
	var names []string
	for _, rm := range p.Nodes() {
		names = append(names, rm.Name)
	}
	return names
}

func TestRooms_Paginated(t *testing.T) {
	r, _, _ := setup(t)
	ctx := context.Background()

	first, err := r.Rooms(ctx, paging.Args{First: intPtr(2)})
	if err != nil {
		t.Fatalf("Rooms() error = %v", err)
	}
	if got, want := roomNamesOf(first), []string{"Living room", "Family room"}; !slices.Equal(got, want) {
		t.Errorf("first page = %v, want %v", got, want)
	}

	second, err := r.Rooms(ctx, paging.Args{First: intPtr(3), After: strPtr(first.Edges[1].Cursor)})
	if err != nil {
		t.Fatalf("Rooms() error = %v", err)
	}
	if got, want := roomNamesOf(second), []string{"Kitchen", "Pantry", "Dining room"}; !slices.Equal(got, want) {
		t.Errorf("second page = %v, want %v", got, want)
	}

	all, err := r.Rooms(ctx, paging.Args{})
	if err != nil {
		t.Fatalf("Rooms() error = %v", err)
	}
	if len(all.Edges) != len(roomNames) {
		t.Errorf("unpaginated = %d rooms, want %d", len(all.Edges), len(roomNames))
	}
}

func TestRooms_InvalidCursor(t *testing.T) {
	r, _, _ := setup(t)

	_, err := r.Rooms(context.Background(), paging.Args{After: strPtr("not a cursor")})
	if !errors.Is(err, paging.ErrInvalidCursor) {
		t.Errorf("Rooms() error = %v, want ErrInvalidCursor", err)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"5", 5, true},
		{"007", 7, true},
		{"+5", 0, false},
		{"-5", 0, false},
		{"", 0, false},
		{"5.0", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseID(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("parseID(%q) = %d, %v, want %d, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLogger_ComponentAttributeOnce(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewWithWriter(&buf, config.LoggingConfig{Level: "debug", Format: "text"}, "test")
	_, rooms, readings := setup(t)
	r := New(rooms, readings, log)
	rooms.failErr = errors.New("disk full")

	r.CreateRoom(context.Background(), "Attic")

	line := buf.String()
	if !strings.Contains(line, "room mutation failed") {
		t.Fatalf("log = %q, want mutation failure logged", line)
	}
	if n := strings.Count(line, "component="); n != 1 {
		t.Errorf("log = %q, component attribute appears %d times, want 1", line, n)
	}
}

func TestRoom(t *testing.T) {
	r, _, _ := setup(t)
	ctx := context.Background()

	rm, err := r.Room(ctx, "3")
	if err != nil {
		t.Fatalf("Room() error = %v", err)
	}
	if rm.Name != "Kitchen" {
		t.Errorf("Room(3) = %q, want Kitchen", rm.Name)
	}

	for _, id := range []string{"99", "abc", "", "007x", "+3", "-3"} {
		_, err := r.Room(ctx, id)
		var nf *room.NotFoundError
		if !errors.As(err, &nf) {
			t.Errorf("Room(%q) error = %v, want *room.NotFoundError", id, err)
			continue
		}
		if want := "Could not find room with ID: " + id; err.Error() != want {
			t.Errorf("Room(%q) error = %q, want %q", id, err.Error(), want)
		}
	}
}

func TestTemperatureReadings_Paginated(t *testing.T) {
	r, _, _ := setup(t)
	ctx := context.Background()

	first, err := r.TemperatureReadings(ctx, "1", paging.Args{First: intPtr(2)})
	if err != nil {
		t.Fatalf("TemperatureReadings() error = %v", err)
	}
	var got []int64
	for _, tr := range first.Nodes() {
		got = append(got, tr.ID)
	}
	if want := []int64{2, 3}; !slices.Equal(got, want) {
		t.Errorf("first page ids = %v, want %v", got, want)
	}

	rest, err := r.TemperatureReadings(ctx, "1", paging.Args{First: intPtr(2), After: strPtr(first.PageInfo.EndCursor)})
	if err != nil {
		t.Fatalf("TemperatureReadings() error = %v", err)
	}
	if len(rest.Edges) != 1 || rest.Edges[0].Node.ID != 1 {
		t.Errorf("second page = %+v, want only the oldest reading", rest.Nodes())
	}
}

func TestTemperatureReadings_EmptyVersusMissing(t *testing.T) {
	r, _, _ := setup(t)
	ctx := context.Background()

	page, err := r.TemperatureReadings(ctx, "6", paging.Args{})
	if err != nil {
		t.Fatalf("TemperatureReadings(existing room) error = %v", err)
	}
	if len(page.Edges) != 0 {
		t.Errorf("edges = %d, want 0", len(page.Edges))
	}

	for _, id := range []string{"404", "kitchen"} {
		_, err := r.TemperatureReadings(ctx, id, paging.Args{})
		if !errors.Is(err, room.ErrNotFound) {
			t.Errorf("TemperatureReadings(%q) error = %v, want room not found", id, err)
		}
	}
}

func TestCreateRoom(t *testing.T) {
	r, rooms, _ := setup(t)

	p := r.CreateRoom(context.Background(), "Test room")
	if p.Errors == nil || len(p.Errors) != 0 {
		t.Errorf("Errors = %#v, want empty non-nil slice", p.Errors)
	}
	if p.Room == nil {
		t.Fatal("Room = nil, want created room")
	}
	if p.Room.Name != "Test room" {
		t.Errorf("Name = %q, want %q", p.Room.Name, "Test room")
	}
	if p.Room.CreatedAt.IsZero() || p.Room.UpdatedAt.IsZero() {
		t.Error("timestamps should be set")
	}
	if rooms.writes != 1 {
		t.Errorf("writes = %d, want 1", rooms.writes)
	}
}

func TestCreateRoom_Failures(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		failErr error
		want    []string
	}{
		{
			name:  "blank name",
			input: "",
			want:  []string{"Name can't be blank"},
		},
		{
			name:    "storage failure",
			input:   "Test room",
			failErr: errors.New("Test error"),
			want:    []string{"Test error"},
		},
		{
			name:    "wrapped validation failure",
			input:   "Test room",
			failErr: &room.ValidationError{Messages: []string{"first", "second"}},
			want:    []string{"first", "second"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, rooms, _ := setup(t)
			rooms.failErr = tt.failErr

			p := r.CreateRoom(context.Background(), tt.input)
			if p.Room != nil {
				t.Errorf("Room = %+v, want nil", p.Room)
			}
			if !slices.Equal(p.Errors, tt.want) {
				t.Errorf("Errors = %q, want %q", p.Errors, tt.want)
			}
		})
	}
}

func TestUpdateRoom(t *testing.T) {
	r, rooms, _ := setup(t)

	before, _ := rooms.FindByID(context.Background(), 4)
	p := r.UpdateRoom(context.Background(), "4", "Larder")
	if len(p.Errors) != 0 {
		t.Fatalf("Errors = %q, want none", p.Errors)
	}
	if p.Room == nil || p.Room.Name != "Larder" {
		t.Fatalf("Room = %+v, want renamed room", p.Room)
	}
	if !p.Room.UpdatedAt.After(before.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want after %v", p.Room.UpdatedAt, before.UpdatedAt)
	}
}

func TestUpdateRoom_UnchangedName(t *testing.T) {
	r, rooms, _ := setup(t)
	// Even a failing store is never reached when nothing changes.
	rooms.failErr = errors.New("should not be called")

	before, _ := rooms.FindByID(context.Background(), 2)
	p := r.UpdateRoom(context.Background(), "2", "Family room")

	if p.Errors == nil || len(p.Errors) != 0 {
		t.Errorf("Errors = %#v, want empty non-nil slice", p.Errors)
	}
	if p.Room == nil || !p.Room.UpdatedAt.Equal(before.UpdatedAt) {
		t.Errorf("Room = %+v, want unchanged room", p.Room)
	}
	if rooms.writes != 0 {
		t.Errorf("writes = %d, want 0", rooms.writes)
	}
}

func TestUpdateRoom_Failures(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		input   string
		failErr error
		want    []string
	}{
		{"unknown id", "12345", "Attic", nil, []string{"Could not find room with ID: 12345"}},
		{"non numeric id", "attic", "Attic", nil, []string{"Could not find room with ID: attic"}},
		{"blank name", "1", "", nil, []string{"Name can't be blank"}},
		{"storage failure", "1", "Lounge", errors.New("disk I/O error"), []string{"disk I/O error"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, rooms, _ := setup(t)
			rooms.failErr = tt.failErr

			p := r.UpdateRoom(context.Background(), tt.id, tt.input)
			if p.Room != nil {
				t.Errorf("Room = %+v, want nil", p.Room)
			}
			if !slices.Equal(p.Errors, tt.want) {
				t.Errorf("Errors = %q, want %q", p.Errors, tt.want)
			}
		})
	}
}

func TestNode(t *testing.T) {
	r, _, _ := setup(t)
	ctx := context.Background()

	got, err := r.Node(ctx, GlobalID(TypeRoom, 3))
	if err != nil {
		t.Fatalf("Node() error = %v", err)
	}
	rm, ok := got.(*room.Room)
	if !ok || rm.Name != "Kitchen" {
		t.Errorf("Node(Room:3) = %#v, want Kitchen", got)
	}

	got, err = r.Node(ctx, GlobalID(TypeTemperatureReading, 3))
	if err != nil {
		t.Fatalf("Node() error = %v", err)
	}
	if tr, ok := got.(*reading.TemperatureReading); !ok || tr.Temperature != 21.4 {
		t.Errorf("Node(TemperatureReading:3) = %#v", got)
	}

	for _, id := range []string{"Room:99", "Room:x", "Sensor:1", "3", "", "TemperatureReading:100"} {
		got, err := r.Node(ctx, id)
		if err != nil {
			t.Errorf("Node(%q) error = %v, want nil", id, err)
		}
		if got != nil {
			t.Errorf("Node(%q) = %#v, want nil", id, got)
		}
	}
}

func TestNode_StorageErrorPropagates(t *testing.T) {
	r, _, readings := setup(t)
	readings.failErr = errors.New("database is locked")

	if _, err := r.Node(context.Background(), "TemperatureReading:1"); err == nil {
		t.Error("Node() expected storage error")
	}
}

func TestNodes(t *testing.T) {
	r, _, _ := setup(t)

	got, err := r.Nodes(context.Background(), []string{"Room:1", "Room:999", "TemperatureReading:2"})
	if err != nil {
		t.Fatalf("Nodes() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if _, ok := got[0].(*room.Room); !ok {
		t.Errorf("got[0] = %#v, want *room.Room", got[0])
	}
	if got[1] != nil {
		t.Errorf("got[1] = %#v, want nil", got[1])
	}
	if _, ok := got[2].(*reading.TemperatureReading); !ok {
		t.Errorf("got[2] = %#v, want *reading.TemperatureReading", got[2])
	}
}
