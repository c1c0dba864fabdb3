package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/campusapti/aptitude-platform/internal/aptitude"
)

// ParticipantRepository reads participant accounts. Accounts are owned by the
// registration service; only the blocked flag matters here.
type ParticipantRepository struct {
	db dbtx
}

// NewParticipantRepository constructs a participant repository.
func NewParticipantRepository(db dbtx) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// GetParticipant fetches one participant by registration number.
func (r *ParticipantRepository) GetParticipant(ctx context.Context, regno string) (aptitude.Participant, error) {
	row := r.db.QueryRow(ctx,
		`SELECT regno, name, trade, COALESCE(avatar, ''), blocked FROM users WHERE regno = $1`, regno)

	var p aptitude.Participant
	if err := row.Scan(&p.Regno, &p.Name, &p.Trade, &p.Avatar, &p.Blocked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return aptitude.Participant{}, aptitude.ErrParticipantUnknown
		}
		return aptitude.Participant{}, fmt.Errorf("get participant: %w", err)
	}
	return p, nil
}
