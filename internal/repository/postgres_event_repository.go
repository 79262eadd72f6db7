package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/TusharSh06/Techgather/internal/domain"
	"github.com/TusharSh06/Techgather/pkg/database"
)

// PostgresEventRepository implements EventRepository on PostgreSQL. Update
// serializes concurrent mutations of one aggregate with SELECT ... FOR UPDATE
// on the event row: any other transaction attempting the same lock blocks
// until this one commits or rolls back, so read-then-write on the capacity
// counters cannot interleave.
type PostgresEventRepository struct {
	db *database.PostgresDB
}

// NewPostgresEventRepository creates a new PostgreSQL event repository
func NewPostgresEventRepository(db *database.PostgresDB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

// Create inserts the event aggregate
func (r *PostgresEventRepository) Create(ctx context.Context, event *domain.Event) error {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO events (id, title, description, category, tags, location, start_date, end_date,
		                     organizer_id, capacity, status, average_rating, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		event.ID, event.Title, event.Description, event.Category, event.Tags, event.Location,
		event.StartDate, event.EndDate, event.OrganizerID, event.Capacity, string(event.Status),
		event.AverageRating, event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	if err := insertChildren(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetByID loads the event aggregate without locking it
func (r *PostgresEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	event, err := loadEvent(ctx, tx, id, false)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return event, nil
}

// List returns events matching the filter, newest first
func (r *PostgresEventRepository) List(ctx context.Context, filter EventFilter) ([]*domain.Event, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	if err := r.db.Pool().QueryRow(ctx, "SELECT COUNT(*) FROM events"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	query := `SELECT id FROM events` + where + ` ORDER BY created_at DESC`
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		args = append(args, filter.PageSize)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, (page-1)*filter.PageSize)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, 0, fmt.Errorf("scan event id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	events := make([]*domain.Event, 0, len(ids))
	for _, id := range ids {
		event, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, event)
	}
	return events, total, nil
}

// Update locks the event row, loads the aggregate, applies fn, and writes the
// aggregate back. fn returning an error rolls everything back.
func (r *PostgresEventRepository) Update(ctx context.Context, id string, fn UpdateFunc) (*domain.Event, error) {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	event, err := loadEvent(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}

	if err := fn(event); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE events
		 SET title = $2, description = $3, category = $4, tags = $5, location = $6,
		     start_date = $7, end_date = $8, capacity = $9, status = $10,
		     average_rating = $11, updated_at = $12
		 WHERE id = $1`,
		event.ID, event.Title, event.Description, event.Category, event.Tags, event.Location,
		event.StartDate, event.EndDate, event.Capacity, string(event.Status),
		event.AverageRating, event.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	// Children are rewritten wholesale; aggregates are small and the event
	// row lock already serializes writers.
	for _, table := range []string{"ticket_types", "attendees", "waitlist", "reviews"} {
		if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE event_id = $1", table), event.ID); err != nil {
			return nil, fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if err := insertChildren(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return event, nil
}

// Delete removes the event and its children
func (r *PostgresEventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool().Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func loadEvent(ctx context.Context, tx pgx.Tx, id string, forUpdate bool) (*domain.Event, error) {
	query := `SELECT id, title, description, category, tags, location, start_date, end_date,
	                 organizer_id, capacity, status, average_rating, created_at, updated_at
	          FROM events WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var e domain.Event
	var status string
	err := tx.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.Title, &e.Description, &e.Category, &e.Tags, &e.Location,
		&e.StartDate, &e.EndDate, &e.OrganizerID, &e.Capacity, &status,
		&e.AverageRating, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("load event: %w", err)
	}
	e.Status = domain.EventStatus(status)

	rows, err := tx.Query(ctx,
		`SELECT name, price, quantity, sold FROM ticket_types WHERE event_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("load ticket types: %w", err)
	}
	for rows.Next() {
		var t domain.TicketType
		if err := rows.Scan(&t.Name, &t.Price, &t.Quantity, &t.Sold); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan ticket type: %w", err)
		}
		e.Tickets = append(e.Tickets, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = tx.Query(ctx,
		`SELECT user_id, ticket_type, status, registered_at, updated_at
		 FROM attendees WHERE event_id = $1 ORDER BY registered_at`, id)
	if err != nil {
		return nil, fmt.Errorf("load attendees: %w", err)
	}
	for rows.Next() {
		var a domain.Attendee
		var aStatus string
		if err := rows.Scan(&a.UserID, &a.TicketType, &aStatus, &a.RegisteredAt, &a.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		a.Status = domain.AttendeeStatus(aStatus)
		e.Attendees = append(e.Attendees, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = tx.Query(ctx,
		`SELECT user_id, ticket_type, added_at FROM waitlist WHERE event_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("load waitlist: %w", err)
	}
	for rows.Next() {
		var w domain.WaitlistEntry
		if err := rows.Scan(&w.UserID, &w.TicketType, &w.AddedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan waitlist entry: %w", err)
		}
		e.Waitlist = append(e.Waitlist, w)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = tx.Query(ctx,
		`SELECT user_id, rating, comment, created_at FROM reviews WHERE event_id = $1 ORDER BY created_at`, id)
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan review: %w", err)
		}
		e.Reviews = append(e.Reviews, rv)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &e, nil
}

func insertChildren(ctx context.Context, tx pgx.Tx, event *domain.Event) error {
	for i, t := range event.Tickets {
		_, err := tx.Exec(ctx,
			`INSERT INTO ticket_types (event_id, name, price, quantity, sold, position)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			event.ID, t.Name, t.Price, t.Quantity, t.Sold, i,
		)
		if err != nil {
			return fmt.Errorf("insert ticket type: %w", err)
		}
	}
	for _, a := range event.Attendees {
		_, err := tx.Exec(ctx,
			`INSERT INTO attendees (event_id, user_id, ticket_type, status, registered_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			event.ID, a.UserID, a.TicketType, string(a.Status), a.RegisteredAt, a.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert attendee: %w", err)
		}
	}
	for i, w := range event.Waitlist {
		_, err := tx.Exec(ctx,
			`INSERT INTO waitlist (event_id, user_id, ticket_type, added_at, position)
			 VALUES ($1, $2, $3, $4, $5)`,
			event.ID, w.UserID, w.TicketType, w.AddedAt, i,
		)
		if err != nil {
			return fmt.Errorf("insert waitlist entry: %w", err)
		}
	}
	for _, rv := range event.Reviews {
		_, err := tx.Exec(ctx,
			`INSERT INTO reviews (event_id, user_id, rating, comment, created_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			event.ID, rv.UserID, rv.Rating, rv.Comment, rv.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert review: %w", err)
		}
	}
	return nil
}
