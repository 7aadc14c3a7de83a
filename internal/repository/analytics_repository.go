package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/models"
)

type IAnalyticsRepository interface {
	GetLeafStatusCounts() ([]models.StatusCount, error)
	GetFruitStatusCounts() ([]models.StatusCount, error)
	GetTopDiseases(limit int) ([]models.LabelCount, error)
	GetTopRipenessStages(limit int) ([]models.LabelCount, error)
}

type AnalyticsRepository struct {
	db *sqlx.DB
}

func NewAnalyticsRepository(db *sqlx.DB) IAnalyticsRepository {
	return &AnalyticsRepository{
		db: db,
	}
}

func (r *AnalyticsRepository) GetLeafStatusCounts() ([]models.StatusCount, error) {
	var counts []models.StatusCount
	query := `SELECT status, COUNT(*) AS count FROM leaf_disease_scans GROUP BY status`

	err := r.db.Select(&counts, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaf status counts: %w", err)
	}

	return counts, nil
}

func (r *AnalyticsRepository) GetFruitStatusCounts() ([]models.StatusCount, error) {
	var counts []models.StatusCount
	query := `SELECT status, COUNT(*) AS count FROM fruit_ripeness_scans GROUP BY status`

	err := r.db.Select(&counts, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get fruit status counts: %w", err)
	}

	return counts, nil
}

func (r *AnalyticsRepository) GetTopDiseases(limit int) ([]models.LabelCount, error) {
	var counts []models.LabelCount
	query := `
		SELECT disease_detected AS label, COUNT(*) AS count
		FROM leaf_disease_scans
		GROUP BY disease_detected
		ORDER BY count DESC
		LIMIT $1
	`

	err := r.db.Select(&counts, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top diseases: %w", err)
	}

	return counts, nil
}

func (r *AnalyticsRepository) GetTopRipenessStages(limit int) ([]models.LabelCount, error) {
	var counts []models.LabelCount
	query := `
		SELECT ripeness_stage AS label, COUNT(*) AS count
		FROM fruit_ripeness_scans
		GROUP BY ripeness_stage
		ORDER BY count DESC
		LIMIT $1
	`

	err := r.db.Select(&counts, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top ripeness stages: %w", err)
	}

	return counts, nil
}
