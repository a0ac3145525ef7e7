package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/planner/internal/core/domain"
)

// TripRepo implements ports.TripRepository.
type TripRepo struct {
	db *DB
}

func NewTripRepo(db *DB) *TripRepo {
	return &TripRepo{db: db}
}

// CreateWithParticipants inserts the trip, its owner and the invited
// participants in one transaction. Either the whole trip exists with
// its owner, or nothing does.
func (r *TripRepo) CreateWithParticipants(ctx context.Context, input domain.NewTripInput) (string, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var tripID string
	err = tx.QueryRow(ctx, `
		INSERT INTO trips (destination, starts_at, ends_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, input.Destination, input.StartsAt, input.EndsAt).Scan(&tripID)
	if err != nil {
		return "", fmt.Errorf("insert trip: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO participants (trip_id, name, email, is_owner, is_confirmed)
		VALUES ($1, $2, $3, true, true)
	`, tripID, input.OwnerName, input.OwnerEmail)
	if err != nil {
		return "", fmt.Errorf("insert owner: %w", err)
	}

	// Duplicate addresses are kept on purpose: each entry is a row.
	for _, email := range input.EmailsToInvite {
		_, err = tx.Exec(ctx, `
			INSERT INTO participants (trip_id, email)
			VALUES ($1, $2)
		`, tripID, email)
		if err != nil {
			return "", fmt.Errorf("insert invitee %s: %w", email, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return tripID, nil
}

func (r *TripRepo) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	trip := &domain.Trip{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, destination, starts_at, ends_at, is_confirmed, created_at
		FROM trips WHERE id = $1
	`, id).Scan(&trip.ID, &trip.Destination, &trip.StartsAt, &trip.EndsAt,
		&trip.IsConfirmed, &trip.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return trip, nil
}

// GetWithPendingParticipants loads the trip plus its non-owner
// participants, the set the confirmation fan-out mails.
func (r *TripRepo) GetWithPendingParticipants(ctx context.Context, id string) (*domain.Trip, error) {
	trip, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, trip_id, email, COALESCE(name, ''), is_owner, is_confirmed, created_at
		FROM participants
		WHERE trip_id = $1 AND is_owner = false
		ORDER BY created_at
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Participant
		if err := rows.Scan(&p.ID, &p.TripID, &p.Email, &p.Name,
			&p.IsOwner, &p.IsConfirmed, &p.CreatedAt); err != nil {
			return nil, err
		}
		trip.Participants = append(trip.Participants, p)
	}
	return trip, rows.Err()
}

// Confirm flips is_confirmed with a compare-and-set. Zero rows updated
// means either the trip is missing or it is already confirmed; the two
// are told apart with a follow-up read.
func (r *TripRepo) Confirm(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE trips SET is_confirmed = true
		WHERE id = $1 AND is_confirmed = false
	`, id)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}
