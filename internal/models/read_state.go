package models

import (
	"time"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/utils"
)

// NotificationReadState tracks which pending scans and pending users a
// dashboard user has already looked at. Redis holds the fast copy; this
// row is the cross-device source of truth.
type NotificationReadState struct {
	UserID      string          `db:"user_id" json:"user_id"`
	ReadScanIDs utils.StringSet `db:"read_scan_ids" json:"read_scan_ids"`
	ReadUserIDs utils.StringSet `db:"read_user_ids" json:"read_user_ids"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}
