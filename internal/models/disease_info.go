package models

import "time"

// DiseaseInfo is a bilingual knowledge-base row (English and Bisaya).
// UpdatedAt doubles as the optimistic-concurrency token: edits carry the
// value they loaded and lose if the row moved underneath them.
type DiseaseInfo struct {
	DiseaseID     string    `db:"disease_id" json:"disease_id"`
	DiseaseName   string    `db:"disease_name" json:"disease_name"`
	DescriptionEN string    `db:"description_en" json:"description_en"`
	DescriptionBI string    `db:"description_bi" json:"description_bi"`
	SymptomsEN    string    `db:"symptoms_en" json:"symptoms_en"`
	SymptomsBI    string    `db:"symptoms_bi" json:"symptoms_bi"`
	TreatmentEN   string    `db:"treatment_en" json:"treatment_en"`
	TreatmentBI   string    `db:"treatment_bi" json:"treatment_bi"`
	ProductsEN    string    `db:"products_en" json:"products_en"`
	ProductsBI    string    `db:"products_bi" json:"products_bi"`
	PreventionEN  string    `db:"prevention_en" json:"prevention_en"`
	PreventionBI  string    `db:"prevention_bi" json:"prevention_bi"`
	LastUpdatedBy string    `db:"last_updated_by" json:"last_updated_by"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
