package models

import "time"

type ValidationStatus string

const (
	ValidationValidated ValidationStatus = "Validated"
	ValidationCorrected ValidationStatus = "Corrected"
)

// ValidationHistory records one expert decision on a scan. Whichever
// action was taken, the scan itself ends up with status Validated; the
// history row keeps the distinction.
type ValidationHistory struct {
	ID               int64            `db:"id" json:"id"`
	ScanID           string           `db:"scan_id" json:"scan_id"`
	ScanType         ScanType         `db:"scan_type" json:"scan_type"`
	ExpertID         string           `db:"expert_id" json:"expert_id"`
	AIPrediction     string           `db:"ai_prediction" json:"ai_prediction"`
	ExpertValidation *string          `db:"expert_validation" json:"expert_validation,omitempty"`
	ExpertComment    *string          `db:"expert_comment" json:"expert_comment,omitempty"`
	Status           ValidationStatus `db:"status" json:"status"`
	ValidatedAt      time.Time        `db:"validated_at" json:"validated_at"`
}
