package models

import "time"

type ScanType string

const (
	ScanTypeLeafDisease   ScanType = "leaf_disease"
	ScanTypeFruitMaturity ScanType = "fruit_maturity"
)

type ScanStatus string

const (
	ScanPending           ScanStatus = "Pending"
	ScanPendingValidation ScanStatus = "Pending Validation"
	ScanValidated         ScanStatus = "Validated"
	ScanCorrected         ScanStatus = "Corrected"
	ScanUnknown           ScanStatus = "Unknown"
)

// IsPending reports whether a scan still waits for expert attention.
// Read markers only make sense for pending scans and are pruned once a
// scan leaves this set.
func (s ScanStatus) IsPending() bool {
	return s == ScanPending || s == ScanPendingValidation
}

type LeafDiseaseScan struct {
	ID              int64      `db:"id" json:"id"`
	ScanUUID        string     `db:"scan_uuid" json:"scan_uuid"`
	FarmerID        string     `db:"farmer_id" json:"farmer_id"`
	FarmID          *string    `db:"farm_id" json:"farm_id,omitempty"`
	ImageURL        string     `db:"image_url" json:"image_url"`
	DiseaseDetected string     `db:"disease_detected" json:"disease_detected"`
	Solution        *string    `db:"solution" json:"solution,omitempty"`
	Recommendation  *string    `db:"recommendation" json:"recommendation,omitempty"`
	Status          ScanStatus `db:"status" json:"status"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

type FruitRipenessScan struct {
	ID                    int64      `db:"id" json:"id"`
	ScanUUID              string     `db:"scan_uuid" json:"scan_uuid"`
	FarmerID              string     `db:"farmer_id" json:"farmer_id"`
	FarmID                *string    `db:"farm_id" json:"farm_id,omitempty"`
	ImageURL              string     `db:"image_url" json:"image_url"`
	RipenessStage         string     `db:"ripeness_stage" json:"ripeness_stage"`
	HarvestRecommendation *string    `db:"harvest_recommendation" json:"harvest_recommendation,omitempty"`
	Status                ScanStatus `db:"status" json:"status"`
	CreatedAt             time.Time  `db:"created_at" json:"created_at"`
}

// ScanRecord is the merged view served to the dashboard. AIPrediction is
// derived from the type discriminant and never stored.
type ScanRecord struct {
	ScanUUID              string     `json:"scan_uuid"`
	ScanType              ScanType   `json:"scan_type"`
	FarmerID              string     `json:"farmer_id"`
	FarmID                *string    `json:"farm_id,omitempty"`
	ImageURL              string     `json:"image_url"`
	DiseaseDetected       string     `json:"disease_detected,omitempty"`
	RipenessStage         string     `json:"ripeness_stage,omitempty"`
	Solution              *string    `json:"solution,omitempty"`
	Recommendation        *string    `json:"recommendation,omitempty"`
	HarvestRecommendation *string    `json:"harvest_recommendation,omitempty"`
	Status                ScanStatus `json:"status"`
	CreatedAt             time.Time  `json:"created_at"`
}

// AIPrediction returns disease_detected for leaf scans and ripeness_stage
// for fruit scans.
func (r *ScanRecord) AIPrediction() string {
	if r.ScanType == ScanTypeFruitMaturity {
		return r.RipenessStage
	}
	return r.DiseaseDetected
}

func (s *LeafDiseaseScan) Record() ScanRecord {
	return ScanRecord{
		ScanUUID:        s.ScanUUID,
		ScanType:        ScanTypeLeafDisease,
		FarmerID:        s.FarmerID,
		FarmID:          s.FarmID,
		ImageURL:        s.ImageURL,
		DiseaseDetected: s.DiseaseDetected,
		Solution:        s.Solution,
		Recommendation:  s.Recommendation,
		Status:          s.Status,
		CreatedAt:       s.CreatedAt,
	}
}

func (s *FruitRipenessScan) Record() ScanRecord {
	return ScanRecord{
		ScanUUID:              s.ScanUUID,
		ScanType:              ScanTypeFruitMaturity,
		FarmerID:              s.FarmerID,
		FarmID:                s.FarmID,
		ImageURL:              s.ImageURL,
		RipenessStage:         s.RipenessStage,
		HarvestRecommendation: s.HarvestRecommendation,
		Status:                s.Status,
		CreatedAt:             s.CreatedAt,
	}
}
