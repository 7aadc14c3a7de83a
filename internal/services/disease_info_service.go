package services

import (
	"context"
	"errors"
	"log"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/event"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/models"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/repository"
)

// ErrEditConflict carries the row's current state back to the editor for
// the confirm-overwrite dialog.
type ErrEditConflict struct {
	Current *models.DiseaseInfo
}

func (e *ErrEditConflict) Error() string {
	return "disease info was modified by someone else"
}

type IDiseaseInfoService interface {
	ListDiseaseInfo() ([]*models.DiseaseInfo, error)
	UpdateDiseaseInfo(ctx context.Context, editorID, diseaseID string, req *models.DiseaseInfoUpdateRequest) (*models.DiseaseInfo, error)
}

type DiseaseInfoService struct {
	diseaseRepo repository.IDiseaseInfoRepository
	publisher   event.ChangePublisher
}

func NewDiseaseInfoService(diseaseRepo repository.IDiseaseInfoRepository, publisher event.ChangePublisher) IDiseaseInfoService {
	return &DiseaseInfoService{
		diseaseRepo: diseaseRepo,
		publisher:   publisher,
	}
}

func (s *DiseaseInfoService) ListDiseaseInfo() ([]*models.DiseaseInfo, error) {
	return s.diseaseRepo.GetAllDiseaseInfo()
}

// UpdateDiseaseInfo applies a bilingual edit guarded by the updated_at the
// editor loaded. A stale edit returns ErrEditConflict with the current row
// unless the request carries force after the user confirmed.
func (s *DiseaseInfoService) UpdateDiseaseInfo(ctx context.Context, editorID, diseaseID string, req *models.DiseaseInfoUpdateRequest) (*models.DiseaseInfo, error) {
	info := &models.DiseaseInfo{
		DiseaseID:     diseaseID,
		DiseaseName:   req.DiseaseName,
		DescriptionEN: req.DescriptionEN,
		DescriptionBI: req.DescriptionBI,
		SymptomsEN:    req.SymptomsEN,
		SymptomsBI:    req.SymptomsBI,
		TreatmentEN:   req.TreatmentEN,
		TreatmentBI:   req.TreatmentBI,
		ProductsEN:    req.ProductsEN,
		ProductsBI:    req.ProductsBI,
		PreventionEN:  req.PreventionEN,
		PreventionBI:  req.PreventionBI,
		LastUpdatedBy: editorID,
	}

	var err error
	if req.Force {
		err = s.diseaseRepo.ForceUpdateDiseaseInfo(info)
	} else {
		err = s.diseaseRepo.UpdateDiseaseInfo(info, req.UpdatedAt)
	}

	if errors.Is(err, repository.ErrStaleUpdate) {
		current, getErr := s.diseaseRepo.GetDiseaseInfoByID(diseaseID)
		if getErr != nil {
			// Row vanished rather than moved; report the lookup failure.
			return nil, getErr
		}
		return nil, &ErrEditConflict{Current: current}
	}
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if pubErr := s.publisher.PublishChange(ctx, event.TableDiseases, event.ActionUpdate, diseaseID); pubErr != nil {
			log.Printf("failed to publish disease info change for %s: %v", diseaseID, pubErr)
		}
	}

	return info, nil
}
