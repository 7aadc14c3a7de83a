package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/models"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/services"
)

func TestGetScans_MissingTokenReturnsUnauthorized(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/scans", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	code, _ := decodeError(t, rec)
	assert.Equal(t, "MISSING_TOKEN", code)
}

func TestGetScans_GarbageTokenReturnsUnauthorized(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/scans", "not-a-jwt", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	code, _ := decodeError(t, rec)
	assert.Equal(t, "INVALID_TOKEN", code)
}

func TestGetScans_FarmerAlwaysForbidden(t *testing.T) {
	env := newTestEnv(t)
	farmer := env.userService.addProfile(models.RoleFarmer, models.ProfileApproved)
	token := env.tokenFor(t, farmer)

	rec := env.do(t, http.MethodGet, "/api/scans", token, nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	code, _ := decodeError(t, rec)
	assert.Equal(t, "FORBIDDEN", code)
}

func TestGetScans_PendingAndRejectedExpertsGetDistinctReasons(t *testing.T) {
	env := newTestEnv(t)

	pending := env.userService.addProfile(models.RoleExpert, models.ProfilePending)
	rec := env.do(t, http.MethodGet, "/api/scans", env.tokenFor(t, pending), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	code, message := decodeError(t, rec)
	assert.Equal(t, "ACCOUNT_PENDING", code)
	assert.Equal(t, "account pending approval", message)

	rejected := env.userService.addProfile(models.RoleExpert, models.ProfileRejected)
	rec = env.do(t, http.MethodGet, "/api/scans", env.tokenFor(t, rejected), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	code, message = decodeError(t, rec)
	assert.Equal(t, "ACCOUNT_REJECTED", code)
	assert.Equal(t, "account registration rejected", message)
}

func TestGetScans_ApprovedExpertReceivesFeed(t *testing.T) {
	env := newTestEnv(t)
	expert := env.userService.addProfile(models.RoleExpert, models.ProfileApproved)

	scan := models.LeafDiseaseScan{
		ScanUUID:        uuid.NewString(),
		FarmerID:        uuid.NewString(),
		DiseaseDetected: "Downy Mildew",
		Status:          models.ScanPending,
		CreatedAt:       time.Now(),
	}
	env.scans.feed = &services.ScanFeed{
		Scans: []services.ScanRecordView{
			{ScanRecord: scan.Record(), AIPrediction: scan.DiseaseDetected},
		},
	}

	rec := env.do(t, http.MethodGet, "/api/scans", env.tokenFor(t, expert), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "private, max-age=30", rec.Header().Get("Cache-Control"))

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Scans []struct {
				ScanUUID     string `json:"scan_uuid"`
				AIPrediction string `json:"ai_prediction"`
			} `json:"scans"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode feed body: %v", err)
	}
	assert.True(t, body.Success)
	assert.Len(t, body.Data.Scans, 1)
	assert.Equal(t, scan.ScanUUID, body.Data.Scans[0].ScanUUID)
	assert.Equal(t, "Downy Mildew", body.Data.Scans[0].AIPrediction)
}

func TestValidateScan_InvalidUUIDRejected(t *testing.T) {
	env := newTestEnv(t)
	expert := env.userService.addProfile(models.RoleExpert, models.ProfileApproved)

	rec := env.do(t, http.MethodPost, "/api/scans/not-a-uuid/validate", env.tokenFor(t, expert), map[string]string{
		"scanType": "leaf_disease",
		"action":   "validate",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	code, _ := decodeError(t, rec)
	assert.Equal(t, "INVALID_SCAN_ID", code)
}

func TestValidateScan_UnknownScanReturnsNotFound(t *testing.T) {
	env := newTestEnv(t)
	expert := env.userService.addProfile(models.RoleExpert, models.ProfileApproved)
	env.validations.err = fmt.Errorf("scan not found")

	rec := env.do(t, http.MethodPost, "/api/scans/"+uuid.NewString()+"/validate", env.tokenFor(t, expert), map[string]string{
		"scanType": "leaf_disease",
		"action":   "validate",
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	code, _ := decodeError(t, rec)
	assert.Equal(t, "SCAN_NOT_FOUND", code)
}

func TestValidateScan_RecordsExpertIdentityFromToken(t *testing.T) {
	env := newTestEnv(t)
	expert := env.userService.addProfile(models.RoleExpert, models.ProfileApproved)
	scanUUID := uuid.NewString()

	rec := env.do(t, http.MethodPost, "/api/scans/"+scanUUID+"/validate", env.tokenFor(t, expert), map[string]string{
		"scanType": "leaf_disease",
		"action":   "validate",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	if assert.NotNil(t, env.validations.lastRecord) {
		assert.Equal(t, expert.ID, env.validations.lastRecord.ExpertID)
		assert.Equal(t, scanUUID, env.validations.lastRecord.ScanID)
	}
}

func TestGetScanHistory_InvalidUUIDRejected(t *testing.T) {
	env := newTestEnv(t)
	expert := env.userService.addProfile(models.RoleExpert, models.ProfileApproved)

	rec := env.do(t, http.MethodGet, "/api/scans/not-a-uuid/history", env.tokenFor(t, expert), nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	code, _ := decodeError(t, rec)
	assert.Equal(t, "INVALID_SCAN_ID", code)
}

func TestGetScanHistory_UnknownScanReturnsNotFound(t *testing.T) {
	env := newTestEnv(t)
	expert := env.userService.addProfile(models.RoleExpert, models.ProfileApproved)

	rec := env.do(t, http.MethodGet, "/api/scans/"+uuid.NewString()+"/history", env.tokenFor(t, expert), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	code, _ := decodeError(t, rec)
	assert.Equal(t, "SCAN_NOT_FOUND", code)
}

func TestGetScanHistory_ReturnsRecordedDecisions(t *testing.T) {
	env := newTestEnv(t)
	expert := env.userService.addProfile(models.RoleExpert, models.ProfileApproved)
	scanUUID := uuid.NewString()
	env.validations.history = map[string][]*models.ValidationHistory{
		scanUUID: {
			{ScanID: scanUUID, ScanType: models.ScanTypeLeafDisease, ExpertID: expert.ID, Status: models.ValidationCorrected},
		},
	}

	rec := env.do(t, http.MethodGet, "/api/scans/"+scanUUID+"/history", env.tokenFor(t, expert), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data struct {
			History []models.ValidationHistory `json:"history"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	if assert.Len(t, body.Data.History, 1) {
		assert.Equal(t, expert.ID, body.Data.History[0].ExpertID)
		assert.Equal(t, models.ValidationCorrected, body.Data.History[0].Status)
	}
}
