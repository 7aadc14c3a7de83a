package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/models"
)

type IValidationRepository interface {
	CreateValidation(record *models.ValidationHistory) error
	GetAllValidations() ([]*models.ValidationHistory, error)
	GetValidationsByScanID(scanID string) ([]*models.ValidationHistory, error)
	CountByStatus(status models.ValidationStatus) (int64, error)
}

type ValidationRepository struct {
	db *sqlx.DB
}

func NewValidationRepository(db *sqlx.DB) IValidationRepository {
	return &ValidationRepository{
		db: db,
	}
}

func (r *ValidationRepository) CreateValidation(record *models.ValidationHistory) error {
	query := `
		INSERT INTO validation_history (scan_id, scan_type, expert_id, ai_prediction,
		                                expert_validation, expert_comment, status, validated_at)
		VALUES (:scan_id, :scan_type, :expert_id, :ai_prediction,
		        :expert_validation, :expert_comment, :status, :validated_at)
	`

	_, err := r.db.NamedExec(query, record)
	if err != nil {
		return fmt.Errorf("failed to create validation record: %w", err)
	}

	return nil
}

func (r *ValidationRepository) GetAllValidations() ([]*models.ValidationHistory, error) {
	var records []*models.ValidationHistory
	query := `SELECT * FROM validation_history ORDER BY validated_at DESC`

	err := r.db.Select(&records, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get validation history: %w", err)
	}

	return records, nil
}

func (r *ValidationRepository) GetValidationsByScanID(scanID string) ([]*models.ValidationHistory, error) {
	var records []*models.ValidationHistory
	query := `SELECT * FROM validation_history WHERE scan_id = $1 ORDER BY validated_at DESC`

	err := r.db.Select(&records, query, scanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get validation history for scan: %w", err)
	}

	return records, nil
}

func (r *ValidationRepository) CountByStatus(status models.ValidationStatus) (int64, error) {
	var count int64
	err := r.db.Get(&count, `SELECT COUNT(*) FROM validation_history WHERE status = $1`, status)
	if err != nil {
		return 0, fmt.Errorf("failed to count validations by status: %w", err)
	}
	return count, nil
}
