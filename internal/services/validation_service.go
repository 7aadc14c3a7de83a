package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/event"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/models"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/repository"
)

type IValidationService interface {
	ValidateScan(ctx context.Context, expertID, scanUUID string, req *models.ValidateScanRequest) (*models.ValidationHistory, error)
	ScanHistory(ctx context.Context, scanUUID string) ([]*models.ValidationHistory, error)
}

type ValidationService struct {
	scanRepo       repository.IScanRepository
	validationRepo repository.IValidationRepository
	readStates     IReadStateService
	publisher      event.ChangePublisher
}

func NewValidationService(scanRepo repository.IScanRepository, validationRepo repository.IValidationRepository, readStates IReadStateService, publisher event.ChangePublisher) IValidationService {
	return &ValidationService{
		scanRepo:       scanRepo,
		validationRepo: validationRepo,
		readStates:     readStates,
		publisher:      publisher,
	}
}

// ValidateScan records an expert decision. Both actions set the scan's
// status to Validated; the history row keeps Validated vs Corrected. A
// correction must carry the expert's own label.
func (s *ValidationService) ValidateScan(ctx context.Context, expertID, scanUUID string, req *models.ValidateScanRequest) (*models.ValidationHistory, error) {
	status := models.ValidationValidated
	switch req.Action {
	case "validate":
	case "correct":
		status = models.ValidationCorrected
		if req.ExpertValidation == nil || *req.ExpertValidation == "" {
			return nil, fmt.Errorf("expert validation label is required for a correction")
		}
	default:
		return nil, fmt.Errorf("unknown action %q", req.Action)
	}

	prediction, table, err := s.lookupPrediction(req.ScanType, scanUUID)
	if err != nil {
		return nil, err
	}

	record := &models.ValidationHistory{
		ScanID:           scanUUID,
		ScanType:         req.ScanType,
		ExpertID:         expertID,
		AIPrediction:     prediction,
		ExpertValidation: req.ExpertValidation,
		ExpertComment:    req.ExpertComment,
		Status:           status,
		ValidatedAt:      time.Now(),
	}
	if err := s.validationRepo.CreateValidation(record); err != nil {
		return nil, err
	}

	if err := s.scanRepo.UpdateScanStatus(req.ScanType, scanUUID, models.ScanValidated); err != nil {
		return nil, err
	}

	// The scan just left the pending set; drop any read markers pointing
	// at it.
	if s.readStates != nil {
		if err := s.readStates.PruneScanMarker(ctx, scanUUID); err != nil {
			log.Printf("failed to prune read markers for scan %s: %v", scanUUID, err)
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishChange(ctx, table, event.ActionUpdate, scanUUID); err != nil {
			log.Printf("failed to publish scan change for %s: %v", scanUUID, err)
		}
		if err := s.publisher.PublishChange(ctx, event.TableValidation, event.ActionInsert, scanUUID); err != nil {
			log.Printf("failed to publish validation change for %s: %v", scanUUID, err)
		}
	}

	return record, nil
}

// ScanHistory returns the decisions recorded for one scan, newest first.
// The scan must exist in one of the scan tables; a scan with no decisions
// yet returns an empty list.
func (s *ValidationService) ScanHistory(ctx context.Context, scanUUID string) ([]*models.ValidationHistory, error) {
	_, leafErr := s.scanRepo.GetLeafScanByUUID(scanUUID)
	if leafErr != nil {
		if _, fruitErr := s.scanRepo.GetFruitScanByUUID(scanUUID); fruitErr != nil {
			return nil, fmt.Errorf("scan not found")
		}
	}

	records, err := s.validationRepo.GetValidationsByScanID(scanUUID)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*models.ValidationHistory{}
	}
	return records, nil
}

func (s *ValidationService) lookupPrediction(scanType models.ScanType, scanUUID string) (string, string, error) {
	switch scanType {
	case models.ScanTypeLeafDisease:
		scan, err := s.scanRepo.GetLeafScanByUUID(scanUUID)
		if err != nil {
			return "", "", err
		}
		return scan.DiseaseDetected, event.TableLeafScans, nil
	case models.ScanTypeFruitMaturity:
		scan, err := s.scanRepo.GetFruitScanByUUID(scanUUID)
		if err != nil {
			return "", "", err
		}
		return scan.RipenessStage, event.TableFruitScans, nil
	default:
		return "", "", fmt.Errorf("unknown scan type %q", scanType)
	}
}
