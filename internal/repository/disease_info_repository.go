package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/models"
)

// ErrStaleUpdate marks an optimistic-concurrency loss: the row moved since
// the editor loaded it.
var ErrStaleUpdate = fmt.Errorf("disease info row was modified by someone else")

type IDiseaseInfoRepository interface {
	GetAllDiseaseInfo() ([]*models.DiseaseInfo, error)
	GetDiseaseInfoByID(diseaseID string) (*models.DiseaseInfo, error)
	UpdateDiseaseInfo(info *models.DiseaseInfo, expectedUpdatedAt time.Time) error
	ForceUpdateDiseaseInfo(info *models.DiseaseInfo) error
	UpsertDiseaseInfo(info *models.DiseaseInfo) error
}

type DiseaseInfoRepository struct {
	db *sqlx.DB
}

func NewDiseaseInfoRepository(db *sqlx.DB) IDiseaseInfoRepository {
	return &DiseaseInfoRepository{
		db: db,
	}
}

func (r *DiseaseInfoRepository) GetAllDiseaseInfo() ([]*models.DiseaseInfo, error) {
	var infos []*models.DiseaseInfo
	query := `SELECT * FROM disease_info ORDER BY disease_name`

	err := r.db.Select(&infos, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get disease info list: %w", err)
	}

	return infos, nil
}

func (r *DiseaseInfoRepository) GetDiseaseInfoByID(diseaseID string) (*models.DiseaseInfo, error) {
	var info models.DiseaseInfo
	query := `SELECT * FROM disease_info WHERE disease_id = $1`

	err := r.db.Get(&info, query, diseaseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("disease info not found")
		}
		return nil, fmt.Errorf("failed to get disease info: %w", err)
	}

	return &info, nil
}

const updateDiseaseInfoSet = `
	disease_name = :disease_name,
	description_en = :description_en, description_bi = :description_bi,
	symptoms_en = :symptoms_en, symptoms_bi = :symptoms_bi,
	treatment_en = :treatment_en, treatment_bi = :treatment_bi,
	products_en = :products_en, products_bi = :products_bi,
	prevention_en = :prevention_en, prevention_bi = :prevention_bi,
	last_updated_by = :last_updated_by,
	updated_at = :updated_at
`

// UpdateDiseaseInfo applies the edit only if the row's updated_at still
// matches what the editor loaded. Zero rows → ErrStaleUpdate.
func (r *DiseaseInfoRepository) UpdateDiseaseInfo(info *models.DiseaseInfo, expectedUpdatedAt time.Time) error {
	info.UpdatedAt = time.Now()

	query := `UPDATE disease_info SET ` + updateDiseaseInfoSet + `
		WHERE disease_id = :disease_id AND updated_at = :expected_updated_at`

	params := map[string]any{
		"disease_id":          info.DiseaseID,
		"disease_name":        info.DiseaseName,
		"description_en":      info.DescriptionEN,
		"description_bi":      info.DescriptionBI,
		"symptoms_en":         info.SymptomsEN,
		"symptoms_bi":         info.SymptomsBI,
		"treatment_en":        info.TreatmentEN,
		"treatment_bi":        info.TreatmentBI,
		"products_en":         info.ProductsEN,
		"products_bi":         info.ProductsBI,
		"prevention_en":       info.PreventionEN,
		"prevention_bi":       info.PreventionBI,
		"last_updated_by":     info.LastUpdatedBy,
		"updated_at":          info.UpdatedAt,
		"expected_updated_at": expectedUpdatedAt,
	}

	result, err := r.db.NamedExec(query, params)
	if err != nil {
		return fmt.Errorf("failed to update disease info: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrStaleUpdate
	}

	return nil
}

// ForceUpdateDiseaseInfo overwrites unconditionally, used after the editor
// confirmed the conflict dialog.
func (r *DiseaseInfoRepository) ForceUpdateDiseaseInfo(info *models.DiseaseInfo) error {
	info.UpdatedAt = time.Now()

	query := `UPDATE disease_info SET ` + updateDiseaseInfoSet + ` WHERE disease_id = :disease_id`

	result, err := r.db.NamedExec(query, info)
	if err != nil {
		return fmt.Errorf("failed to force update disease info: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("disease info not found")
	}

	return nil
}

func (r *DiseaseInfoRepository) UpsertDiseaseInfo(info *models.DiseaseInfo) error {
	info.UpdatedAt = time.Now()

	query := `
		INSERT INTO disease_info (disease_id, disease_name,
			description_en, description_bi, symptoms_en, symptoms_bi,
			treatment_en, treatment_bi, products_en, products_bi,
			prevention_en, prevention_bi, last_updated_by, updated_at)
		VALUES (:disease_id, :disease_name,
			:description_en, :description_bi, :symptoms_en, :symptoms_bi,
			:treatment_en, :treatment_bi, :products_en, :products_bi,
			:prevention_en, :prevention_bi, :last_updated_by, :updated_at)
		ON CONFLICT (disease_id) DO UPDATE SET ` + conflictDiseaseInfoSet

	_, err := r.db.NamedExec(query, info)
	if err != nil {
		return fmt.Errorf("failed to upsert disease info: %w", err)
	}

	return nil
}

const conflictDiseaseInfoSet = `
	disease_name = EXCLUDED.disease_name,
	description_en = EXCLUDED.description_en, description_bi = EXCLUDED.description_bi,
	symptoms_en = EXCLUDED.symptoms_en, symptoms_bi = EXCLUDED.symptoms_bi,
	treatment_en = EXCLUDED.treatment_en, treatment_bi = EXCLUDED.treatment_bi,
	products_en = EXCLUDED.products_en, products_bi = EXCLUDED.products_bi,
	prevention_en = EXCLUDED.prevention_en, prevention_bi = EXCLUDED.prevention_bi,
	last_updated_by = EXCLUDED.last_updated_by,
	updated_at = EXCLUDED.updated_at
`
