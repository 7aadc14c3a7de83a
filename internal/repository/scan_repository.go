package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/models"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/utils"
)

type IScanRepository interface {
	GetAllLeafScans() ([]*models.LeafDiseaseScan, error)
	GetAllFruitScans() ([]*models.FruitRipenessScan, error)
	GetLeafScanByUUID(scanUUID string) (*models.LeafDiseaseScan, error)
	GetFruitScanByUUID(scanUUID string) (*models.FruitRipenessScan, error)
	UpdateScanStatus(scanType models.ScanType, scanUUID string, status models.ScanStatus) error
	GetPendingScanUUIDs() ([]string, error)
	CreateLeafScan(scan *models.LeafDiseaseScan) error
	CreateFruitScan(scan *models.FruitRipenessScan) error
}

type ScanRepository struct {
	db *sqlx.DB
}

func NewScanRepository(db *sqlx.DB) IScanRepository {
	return &ScanRepository{
		db: db,
	}
}

func (r *ScanRepository) GetAllLeafScans() ([]*models.LeafDiseaseScan, error) {
	var scans []*models.LeafDiseaseScan
	query := `SELECT * FROM leaf_disease_scans ORDER BY created_at DESC`

	err := r.db.Select(&scans, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaf disease scans: %w", err)
	}

	return scans, nil
}

func (r *ScanRepository) GetAllFruitScans() ([]*models.FruitRipenessScan, error) {
	var scans []*models.FruitRipenessScan
	query := `SELECT * FROM fruit_ripeness_scans ORDER BY created_at DESC`

	err := r.db.Select(&scans, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get fruit ripeness scans: %w", err)
	}

	return scans, nil
}

func (r *ScanRepository) GetLeafScanByUUID(scanUUID string) (*models.LeafDiseaseScan, error) {
	var scan models.LeafDiseaseScan
	query := `SELECT * FROM leaf_disease_scans WHERE scan_uuid = $1`

	err := r.db.Get(&scan, query, scanUUID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("scan not found")
		}
		return nil, fmt.Errorf("failed to get leaf scan by uuid: %w", err)
	}

	return &scan, nil
}

func (r *ScanRepository) GetFruitScanByUUID(scanUUID string) (*models.FruitRipenessScan, error) {
	var scan models.FruitRipenessScan
	query := `SELECT * FROM fruit_ripeness_scans WHERE scan_uuid = $1`

	err := r.db.Get(&scan, query, scanUUID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("scan not found")
		}
		return nil, fmt.Errorf("failed to get fruit scan by uuid: %w", err)
	}

	return &scan, nil
}

func (r *ScanRepository) UpdateScanStatus(scanType models.ScanType, scanUUID string, status models.ScanStatus) error {
	table := "leaf_disease_scans"
	if scanType == models.ScanTypeFruitMaturity {
		table = "fruit_ripeness_scans"
	}
	query := fmt.Sprintf(`UPDATE %s SET status = $1 WHERE scan_uuid = $2`, table)

	err := utils.ExecWithCheck(r.db, query, utils.ExecUpdate, status, scanUUID)
	if errors.Is(err, utils.ErrNoRowsAffected) {
		return fmt.Errorf("scan not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update scan status: %w", err)
	}
	return nil
}

// GetPendingScanUUIDs returns the union of pending scan IDs across both
// scan tables. Read-marker pruning reconciles against this set.
func (r *ScanRepository) GetPendingScanUUIDs() ([]string, error) {
	var uuids []string
	query := `
		SELECT scan_uuid FROM leaf_disease_scans WHERE status IN ('Pending', 'Pending Validation')
		UNION
		SELECT scan_uuid FROM fruit_ripeness_scans WHERE status IN ('Pending', 'Pending Validation')
	`

	err := r.db.Select(&uuids, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending scan uuids: %w", err)
	}

	return uuids, nil
}

func (r *ScanRepository) CreateLeafScan(scan *models.LeafDiseaseScan) error {
	query := `
		INSERT INTO leaf_disease_scans (scan_uuid, farmer_id, farm_id, image_url, disease_detected,
		                                solution, recommendation, status)
		VALUES (:scan_uuid, :farmer_id, :farm_id, :image_url, :disease_detected,
		        :solution, :recommendation, :status)
	`

	_, err := r.db.NamedExec(query, scan)
	if err != nil {
		return fmt.Errorf("failed to create leaf scan: %w", err)
	}

	return nil
}

func (r *ScanRepository) CreateFruitScan(scan *models.FruitRipenessScan) error {
	query := `
		INSERT INTO fruit_ripeness_scans (scan_uuid, farmer_id, farm_id, image_url, ripeness_stage,
		                                  harvest_recommendation, status)
		VALUES (:scan_uuid, :farmer_id, :farm_id, :image_url, :ripeness_stage,
		        :harvest_recommendation, :status)
	`

	_, err := r.db.NamedExec(query, scan)
	if err != nil {
		return fmt.Errorf("failed to create fruit scan: %w", err)
	}

	return nil
}
