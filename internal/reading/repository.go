package reading

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/nerrad567/birchhill-core/internal/infrastructure/database"
	"github.com/nerrad567/birchhill-core/internal/room"
)

// Repository stores and retrieves temperature readings.
//
// Implementations must be thread-safe and use UTC timestamps.
type Repository interface {
	// ListForRoom returns every reading for a room, newest first.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - roomID: Room whose readings are listed
	//
	// Returns:
	//   - []TemperatureReading: Ordered by recorded_at DESC, id DESC (empty, never nil, for a room without readings)
	//   - error: *room.NotFoundError when the room does not exist
	ListForRoom(ctx context.Context, roomID int64) ([]TemperatureReading, error)

	// FindByID returns a single reading or *NotFoundError.
	FindByID(ctx context.Context, id int64) (*TemperatureReading, error)

	// Record validates and inserts a reading, filling in ID and CreatedAt.
	//
	// Returns:
	//   - error: ErrInvalidReading on bad input, *room.NotFoundError for an unknown room
	Record(ctx context.Context, r *TemperatureReading) error
}

// Option configures a SQLiteRepository.
type Option func(*SQLiteRepository)

// WithClock overrides the time source used for created_at.
func WithClock(now func() time.Time) Option {
	return func(r *SQLiteRepository) {
		r.now = now
	}
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteRepository creates a new SQLite-backed reading repository.
//
// Parameters:
//   - db: Open SQLite connection with the rooms and temperature_readings tables
//   - opts: Optional settings such as WithClock
func NewSQLiteRepository(db *sql.DB, opts ...Option) *SQLiteRepository {
	r := &SQLiteRepository{db: db, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

const selectColumns = `SELECT id, room_id, temperature, humidity, recorded_at, created_at
	FROM temperature_readings`

// ListForRoom returns readings for a room ordered by recorded_at DESC, id DESC.
func (r *SQLiteRepository) ListForRoom(ctx context.Context, roomID int64) ([]TemperatureReading, error) {
	if err := r.requireRoom(ctx, roomID); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		selectColumns+` WHERE room_id = ? ORDER BY recorded_at DESC, id DESC`,
		roomID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying temperature readings: %w", err)
	}
	defer rows.Close()

	readings := []TemperatureReading{}
	for rows.Next() {
		tr, err := scanReading(rows)
		if err != nil {
			return nil, err
		}
		readings = append(readings, *tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating temperature readings: %w", err)
	}
	return readings, nil
}

// FindByID returns a single reading.
func (r *SQLiteRepository) FindByID(ctx context.Context, id int64) (*TemperatureReading, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	tr, err := scanReading(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, err
	}
	return tr, nil
}

// Record validates tr and inserts it.
//
// On success tr.ID and tr.CreatedAt are set and tr.RecordedAt is normalised
// to UTC.
func (r *SQLiteRepository) Record(ctx context.Context, tr *TemperatureReading) error {
	if err := Validate(tr); err != nil {
		return err
	}
	if err := r.requireRoom(ctx, tr.RoomID); err != nil {
		return err
	}

	now := r.now().UTC()
	recordedAt := tr.RecordedAt.UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO temperature_readings
			(room_id, temperature, humidity, recorded_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		tr.RoomID,
		tr.Temperature,
		tr.Humidity,
		database.FormatTime(recordedAt),
		database.FormatTime(now),
		database.FormatTime(now),
	)
	if err != nil {
		return fmt.Errorf("inserting temperature reading: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading temperature reading id: %w", err)
	}

	tr.ID = id
	tr.RecordedAt = recordedAt
	tr.CreatedAt = now
	return nil
}

// Validate checks a reading before it is written.
func Validate(tr *TemperatureReading) error {
	if tr.RoomID <= 0 {
		return fmt.Errorf("%w: room id is required", ErrInvalidReading)
	}
	if tr.RecordedAt.IsZero() {
		return fmt.Errorf("%w: recorded_at is required", ErrInvalidReading)
	}
	if !isFinite(tr.Temperature) {
		return fmt.Errorf("%w: temperature must be a finite number", ErrInvalidReading)
	}
	if !isFinite(tr.Humidity) {
		return fmt.Errorf("%w: humidity must be a finite number", ErrInvalidReading)
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// requireRoom returns *room.NotFoundError unless roomID exists.
func (r *SQLiteRepository) requireRoom(ctx context.Context, roomID int64) error {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM rooms WHERE id = ?)", roomID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking room %d: %w", roomID, err)
	}
	if !exists {
		return &room.NotFoundError{ID: strconv.FormatInt(roomID, 10)}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReading(s rowScanner) (*TemperatureReading, error) {
	var tr TemperatureReading
	var recordedAt, createdAt string

	if err := s.Scan(&tr.ID, &tr.RoomID, &tr.Temperature, &tr.Humidity, &recordedAt, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning temperature reading: %w", err)
	}

	var err error
	if tr.RecordedAt, err = database.ParseTime(recordedAt); err != nil {
		return nil, fmt.Errorf("reading %d recorded_at: %w", tr.ID, err)
	}
	if tr.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, fmt.Errorf("reading %d created_at: %w", tr.ID, err)
	}
	return &tr, nil
}
