package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/models"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/utils"
)

type IReadStateRepository interface {
	GetReadState(userID string) (*models.NotificationReadState, error)
	SaveReadState(state *models.NotificationReadState) error
}

type ReadStateRepository struct {
	db *sqlx.DB
}

func NewReadStateRepository(db *sqlx.DB) IReadStateRepository {
	return &ReadStateRepository{
		db: db,
	}
}

// GetReadState returns an empty state (not an error) for users with no row
// yet; first read happens before first write.
func (r *ReadStateRepository) GetReadState(userID string) (*models.NotificationReadState, error) {
	var state models.NotificationReadState
	query := `SELECT * FROM notification_read_state WHERE user_id = $1`

	err := r.db.Get(&state, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return &models.NotificationReadState{
				UserID:      userID,
				ReadScanIDs: utils.NewStringSet(),
				ReadUserIDs: utils.NewStringSet(),
			}, nil
		}
		return nil, fmt.Errorf("failed to get read state: %w", err)
	}

	return &state, nil
}

func (r *ReadStateRepository) SaveReadState(state *models.NotificationReadState) error {
	state.UpdatedAt = time.Now()

	query := `
		INSERT INTO notification_read_state (user_id, read_scan_ids, read_user_ids, updated_at)
		VALUES (:user_id, :read_scan_ids, :read_user_ids, :updated_at)
		ON CONFLICT (user_id) DO UPDATE SET
			read_scan_ids = EXCLUDED.read_scan_ids,
			read_user_ids = EXCLUDED.read_user_ids,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.NamedExec(query, state)
	if err != nil {
		return fmt.Errorf("failed to save read state: %w", err)
	}

	return nil
}
