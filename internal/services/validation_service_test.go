package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/models"
)

func seedLeafScan(repo *fakeScanRepo, status models.ScanStatus) string {
	scanUUID := uuid.NewString()
	repo.CreateLeafScan(&models.LeafDiseaseScan{
		ScanUUID:        scanUUID,
		FarmerID:        uuid.NewString(),
		ImageURL:        "scans/leaf.jpg",
		DiseaseDetected: "Fusarium Wilt",
		Status:          status,
	})
	return scanUUID
}

func TestValidateScan_ValidateAction(t *testing.T) {
	scanRepo := newFakeScanRepo()
	validationRepo := &fakeValidationRepo{}
	svc := NewValidationService(scanRepo, validationRepo, nil, nil)

	scanUUID := seedLeafScan(scanRepo, models.ScanPendingValidation)
	expertID := uuid.NewString()

	record, err := svc.ValidateScan(context.Background(), expertID, scanUUID, &models.ValidateScanRequest{
		ScanType: models.ScanTypeLeafDisease,
		Action:   "validate",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.ValidationValidated, record.Status)
	assert.Equal(t, "Fusarium Wilt", record.AIPrediction)
	assert.Equal(t, models.ScanValidated, scanRepo.leaf[scanUUID].Status)
}

func TestValidateScan_CorrectActionStillMarksScanValidated(t *testing.T) {
	scanRepo := newFakeScanRepo()
	validationRepo := &fakeValidationRepo{}
	svc := NewValidationService(scanRepo, validationRepo, nil, nil)

	scanUUID := seedLeafScan(scanRepo, models.ScanPendingValidation)
	label := "Powdery Mildew"

	record, err := svc.ValidateScan(context.Background(), uuid.NewString(), scanUUID, &models.ValidateScanRequest{
		ScanType:         models.ScanTypeLeafDisease,
		Action:           "correct",
		ExpertValidation: &label,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.ValidationCorrected, record.Status)
	assert.Equal(t, models.ScanValidated, scanRepo.leaf[scanUUID].Status,
		"scan status is Validated even for corrections")
}

func TestValidateScan_CorrectWithoutLabel(t *testing.T) {
	scanRepo := newFakeScanRepo()
	svc := NewValidationService(scanRepo, &fakeValidationRepo{}, nil, nil)

	scanUUID := seedLeafScan(scanRepo, models.ScanPendingValidation)

	_, err := svc.ValidateScan(context.Background(), uuid.NewString(), scanUUID, &models.ValidateScanRequest{
		ScanType: models.ScanTypeLeafDisease,
		Action:   "correct",
	})

	assert.ErrorContains(t, err, "label is required")
}

func TestValidateScan_UnknownScan(t *testing.T) {
	svc := NewValidationService(newFakeScanRepo(), &fakeValidationRepo{}, nil, nil)

	_, err := svc.ValidateScan(context.Background(), uuid.NewString(), uuid.NewString(), &models.ValidateScanRequest{
		ScanType: models.ScanTypeLeafDisease,
		Action:   "validate",
	})

	assert.ErrorContains(t, err, "scan not found")
}

func TestValidateScan_FruitPredictionFromRipenessStage(t *testing.T) {
	scanRepo := newFakeScanRepo()
	svc := NewValidationService(scanRepo, &fakeValidationRepo{}, nil, nil)

	scanUUID := uuid.NewString()
	scanRepo.CreateFruitScan(&models.FruitRipenessScan{
		ScanUUID:      scanUUID,
		FarmerID:      uuid.NewString(),
		ImageURL:      "scans/fruit.jpg",
		RipenessStage: "Overripe",
		Status:        models.ScanPending,
	})

	record, err := svc.ValidateScan(context.Background(), uuid.NewString(), scanUUID, &models.ValidateScanRequest{
		ScanType: models.ScanTypeFruitMaturity,
		Action:   "validate",
	})

	assert.NoError(t, err)
	assert.Equal(t, "Overripe", record.AIPrediction)
}

func TestScanHistory_ReturnsDecisionsForScan(t *testing.T) {
	scanRepo := newFakeScanRepo()
	validationRepo := &fakeValidationRepo{}
	svc := NewValidationService(scanRepo, validationRepo, nil, nil)

	scanUUID := seedLeafScan(scanRepo, models.ScanPendingValidation)
	otherUUID := seedLeafScan(scanRepo, models.ScanPendingValidation)
	expertID := uuid.NewString()

	_, err := svc.ValidateScan(context.Background(), expertID, scanUUID, &models.ValidateScanRequest{
		ScanType: models.ScanTypeLeafDisease,
		Action:   "validate",
	})
	assert.NoError(t, err)

	records, err := svc.ScanHistory(context.Background(), scanUUID)
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, expertID, records[0].ExpertID)

	records, err = svc.ScanHistory(context.Background(), otherUUID)
	assert.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records, "a scan with no decisions yet serializes as an empty list")
}

func TestScanHistory_UnknownScan(t *testing.T) {
	svc := NewValidationService(newFakeScanRepo(), &fakeValidationRepo{}, nil, nil)

	_, err := svc.ScanHistory(context.Background(), uuid.NewString())

	assert.ErrorContains(t, err, "scan not found")
}

type fakeReadStateService struct {
	prunedScanIDs []string
}

var _ IReadStateService = (*fakeReadStateService)(nil)

func (f *fakeReadStateService) GetReadState(context.Context, string) (*models.NotificationReadState, error) {
	return nil, nil
}

func (f *fakeReadStateService) MarkRead(context.Context, string, []string, []string) (*models.NotificationReadState, error) {
	return nil, nil
}

func (f *fakeReadStateService) PruneScanMarker(_ context.Context, scanUUID string) error {
	f.prunedScanIDs = append(f.prunedScanIDs, scanUUID)
	return nil
}

func TestValidateScan_PrunesMarkersForTheValidatedScan(t *testing.T) {
	scanRepo := newFakeScanRepo()
	readStates := &fakeReadStateService{}
	svc := NewValidationService(scanRepo, &fakeValidationRepo{}, readStates, nil)

	scanUUID := seedLeafScan(scanRepo, models.ScanPendingValidation)

	_, err := svc.ValidateScan(context.Background(), uuid.NewString(), scanUUID, &models.ValidateScanRequest{
		ScanType: models.ScanTypeLeafDisease,
		Action:   "validate",
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{scanUUID}, readStates.prunedScanIDs)
}
