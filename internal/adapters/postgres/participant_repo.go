package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/planner/internal/core/domain"
)

// ParticipantRepo implements ports.ParticipantRepository.
type ParticipantRepo struct {
	db *DB
}

func NewParticipantRepo(db *DB) *ParticipantRepo {
	return &ParticipantRepo{db: db}
}

// Create inserts a pending non-owner participant. No dedupe against
// existing rows: repeat invites to the same address are allowed.
func (r *ParticipantRepo) Create(ctx context.Context, tripID, email string) (string, error) {
	var id string
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO participants (trip_id, email)
		VALUES ($1, $2)
		RETURNING id
	`, tripID, email).Scan(&id)
	return id, err
}

func (r *ParticipantRepo) GetByID(ctx context.Context, id string) (*domain.Participant, error) {
	p := &domain.Participant{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, trip_id, email, COALESCE(name, ''), is_owner, is_confirmed, created_at
		FROM participants WHERE id = $1
	`, id).Scan(&p.ID, &p.TripID, &p.Email, &p.Name, &p.IsOwner, &p.IsConfirmed, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ParticipantRepo) ListByTrip(ctx context.Context, tripID string) ([]domain.Participant, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, trip_id, email, COALESCE(name, ''), is_owner, is_confirmed, created_at
		FROM participants
		WHERE trip_id = $1
		ORDER BY is_owner DESC, created_at
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parts []domain.Participant
	for rows.Next() {
		var p domain.Participant
		if err := rows.Scan(&p.ID, &p.TripID, &p.Email, &p.Name,
			&p.IsOwner, &p.IsConfirmed, &p.CreatedAt); err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

// Confirm flips is_confirmed with a compare-and-set, mirroring the
// trip confirmation update.
func (r *ParticipantRepo) Confirm(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE participants SET is_confirmed = true
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
