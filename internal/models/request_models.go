package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	jwt.RegisteredClaims
	Id     string `json:"jti"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserActionRequest struct {
	UserID string `json:"userId"`
}

type ValidateScanRequest struct {
	ScanType         ScanType `json:"scanType"`
	Action           string   `json:"action"` // "validate" or "correct"
	ExpertValidation *string  `json:"expertValidation,omitempty"`
	ExpertComment    *string  `json:"expertComment,omitempty"`
}

type DiseaseInfoUpdateRequest struct {
	DiseaseName   string    `json:"disease_name"`
	DescriptionEN string    `json:"description_en"`
	DescriptionBI string    `json:"description_bi"`
	SymptomsEN    string    `json:"symptoms_en"`
	SymptomsBI    string    `json:"symptoms_bi"`
	TreatmentEN   string    `json:"treatment_en"`
	TreatmentBI   string    `json:"treatment_bi"`
	ProductsEN    string    `json:"products_en"`
	ProductsBI    string    `json:"products_bi"`
	PreventionEN  string    `json:"prevention_en"`
	PreventionBI  string    `json:"prevention_bi"`
	// UpdatedAt is the value the editor loaded; the update only applies if
	// the row still carries it, unless Force is set after the user confirms
	// the overwrite.
	UpdatedAt time.Time `json:"updated_at"`
	Force     bool      `json:"force,omitempty"`
}

type MarkReadRequest struct {
	ScanIDs []string `json:"scanIds,omitempty"`
	UserIDs []string `json:"userIds,omitempty"`
}
