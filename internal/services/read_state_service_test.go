package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/models"
)

func TestMarkRead_KeepsPendingMarkers(t *testing.T) {
	scanRepo := newFakeScanRepo()
	profileRepo := newFakeProfileRepo()
	svc := NewReadStateService(newFakeReadStateRepo(), scanRepo, profileRepo, nil)

	scanUUID := seedLeafScan(scanRepo, models.ScanPendingValidation)
	userID := uuid.NewString()

	state, err := svc.MarkRead(context.Background(), userID, []string{scanUUID}, nil)

	assert.NoError(t, err)
	assert.True(t, state.ReadScanIDs.Contains(scanUUID))
}

func TestReadState_PrunesMarkerWhenScanLeavesPending(t *testing.T) {
	scanRepo := newFakeScanRepo()
	profileRepo := newFakeProfileRepo()
	svc := NewReadStateService(newFakeReadStateRepo(), scanRepo, profileRepo, nil)

	scanUUID := seedLeafScan(scanRepo, models.ScanPendingValidation)
	userID := uuid.NewString()

	_, err := svc.MarkRead(context.Background(), userID, []string{scanUUID}, nil)
	assert.NoError(t, err)

	// the scan gets validated and leaves the pending set
	assert.NoError(t, scanRepo.UpdateScanStatus(models.ScanTypeLeafDisease, scanUUID, models.ScanValidated))

	state, err := svc.GetReadState(context.Background(), userID)
	assert.NoError(t, err)
	assert.False(t, state.ReadScanIDs.Contains(scanUUID), "marker must not outlive its pending referent")
}

func TestReadState_PrunesUserMarkerAfterApproval(t *testing.T) {
	scanRepo := newFakeScanRepo()
	profileRepo := newFakeProfileRepo()
	svc := NewReadStateService(newFakeReadStateRepo(), scanRepo, profileRepo, nil)

	pendingID := uuid.NewString()
	profileRepo.profiles[pendingID] = &models.Profile{
		ID:     pendingID,
		Email:  "pending@example.com",
		Role:   models.RoleExpert,
		Status: models.ProfilePending,
	}

	adminID := uuid.NewString()
	_, err := svc.MarkRead(context.Background(), adminID, nil, []string{pendingID})
	assert.NoError(t, err)

	assert.NoError(t, profileRepo.ApprovePendingProfile(pendingID))

	state, err := svc.GetReadState(context.Background(), adminID)
	assert.NoError(t, err)
	assert.False(t, state.ReadUserIDs.Contains(pendingID))
}

func TestReadState_DropsMarkersForUnknownReferents(t *testing.T) {
	svc := NewReadStateService(newFakeReadStateRepo(), newFakeScanRepo(), newFakeProfileRepo(), nil)

	userID := uuid.NewString()
	state, err := svc.MarkRead(context.Background(), userID, []string{uuid.NewString()}, []string{uuid.NewString()})

	assert.NoError(t, err)
	assert.Empty(t, state.ReadScanIDs.Slice())
	assert.Empty(t, state.ReadUserIDs.Slice())
}
