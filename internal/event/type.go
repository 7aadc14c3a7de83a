package event

import "time"

// ChangeFeedQueue carries row-change notifications for the tables the
// dashboard watches.
const ChangeFeedQueue = "dashboard_change_events"

type ChangeAction string

const (
	ActionInsert ChangeAction = "insert"
	ActionUpdate ChangeAction = "update"
	ActionDelete ChangeAction = "delete"
)

// Watched table names as they appear in ChangeEvent.Table.
const (
	TableProfiles   = "profiles"
	TableLeafScans  = "leaf_disease_scans"
	TableFruitScans = "fruit_ripeness_scans"
	TableValidation = "validation_history"
	TableDiseases   = "disease_info"
)

// ChangeEvent is one row-level insert/update/delete notification. Consumers
// treat it purely as an invalidation signal and re-fetch; the event never
// carries row data.
type ChangeEvent struct {
	ID         string       `json:"id"`
	Table      string       `json:"table"`
	Action     ChangeAction `json:"action"`
	RowID      string       `json:"row_id"`
	OccurredAt time.Time    `json:"occurred_at"`
}
