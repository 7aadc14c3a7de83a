package models

type StatusCount struct {
	Status ScanStatus `db:"status" json:"status"`
	Count  int64      `db:"count" json:"count"`
}

type LabelCount struct {
	Label string `db:"label" json:"label"`
	Count int64  `db:"count" json:"count"`
}

// DashboardAnalytics is the aggregate block behind the charts: volume per
// status, top detected diseases and ripeness stages, and how often experts
// agreed with the model.
type DashboardAnalytics struct {
	LeafStatusCounts  []StatusCount `json:"leaf_status_counts"`
	FruitStatusCounts []StatusCount `json:"fruit_status_counts"`
	TopDiseases       []LabelCount  `json:"top_diseases"`
	TopRipenessStages []LabelCount  `json:"top_ripeness_stages"`
	ValidatedCount    int64         `json:"validated_count"`
	CorrectedCount    int64         `json:"corrected_count"`
	AgreementRate     float64       `json:"agreement_rate"`
	PendingUsers      int64         `json:"pending_users"`
}
