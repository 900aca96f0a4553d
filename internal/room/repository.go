package room

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nerrad567/birchhill-core/internal/infrastructure/database"
)

// Repository defines the persistence operations for rooms.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*Room, error)
	ListAll(ctx context.Context) ([]Room, error)
	Create(ctx context.Context, name string) (*Room, error)
	Update(ctx context.Context, id int64, name string) (*Room, error)
}

// Option configures a SQLiteRepository.
type Option func(*SQLiteRepository)

// WithClock overrides the time source used for created_at and updated_at.
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

// NewSQLiteRepository creates a new SQLite-backed room repository.
func NewSQLiteRepository(db *sql.DB, opts ...Option) *SQLiteRepository {
	r := &SQLiteRepository{db: db, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

const selectColumns = `SELECT id, name, created_at, updated_at FROM rooms`

// FindByID returns a single room, or *NotFoundError if none matches.
func (r *SQLiteRepository) FindByID(ctx context.Context, id int64) (*Room, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	rm, err := scanRoom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{ID: strconv.FormatInt(id, 10)}
	}
	if err != nil {
		return nil, err
	}
	return rm, nil
}

// ListAll returns every room in primary-key order.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]Room, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying rooms: %w", err)
	}
	defer rows.Close()

	rooms := []Room{}
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, *rm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating room rows: %w", err)
	}
	return rooms, nil
}

// Create validates name and inserts a new room.
func (r *SQLiteRepository) Create(ctx context.Context, name string) (*Room, error) {
	if err := validationError(name); err != nil {
		return nil, err
	}

	now := r.now().UTC()
	const query = `INSERT INTO rooms (name, created_at, updated_at) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, name, database.FormatTime(now), database.FormatTime(now))
	if err != nil {
		return nil, fmt.Errorf("inserting room: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading room id: %w", err)
	}

	return &Room{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}, nil
}

// Update renames a room.
//
// When name equals the stored name the room is returned as loaded: nothing
// is validated or written and UpdatedAt keeps its value.
func (r *SQLiteRepository) Update(ctx context.Context, id int64, name string) (*Room, error) {
	rm, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rm.Name == name {
		return rm, nil
	}
	if err := validationError(name); err != nil {
		return nil, err
	}

	now := r.now().UTC()
	const query = `UPDATE rooms SET name = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, name, database.FormatTime(now), id)
	if err != nil {
		return nil, fmt.Errorf("updating room %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, &NotFoundError{ID: strconv.FormatInt(id, 10)}
	}

	rm.Name = name
	rm.UpdatedAt = now
	return rm, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(s rowScanner) (*Room, error) {
	var rm Room
	var createdAt, updatedAt string

	if err := s.Scan(&rm.ID, &rm.Name, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning room: %w", err)
	}

	var err error
	if rm.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, fmt.Errorf("room %d created_at: %w", rm.ID, err)
	}
	if rm.UpdatedAt, err = database.ParseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("room %d updated_at: %w", rm.ID, err)
	}
	return &rm, nil
}
