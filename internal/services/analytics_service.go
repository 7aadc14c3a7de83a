package services

import (
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/models"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/repository"
)

const topChartLimit = 5

type IAnalyticsService interface {
	GetDashboardAnalytics() (*models.DashboardAnalytics, error)
}

type AnalyticsService struct {
	analyticsRepo  repository.IAnalyticsRepository
	validationRepo repository.IValidationRepository
	profileRepo    repository.IProfileRepository
}

func NewAnalyticsService(analyticsRepo repository.IAnalyticsRepository, validationRepo repository.IValidationRepository, profileRepo repository.IProfileRepository) IAnalyticsService {
	return &AnalyticsService{
		analyticsRepo:  analyticsRepo,
		validationRepo: validationRepo,
		profileRepo:    profileRepo,
	}
}

func (s *AnalyticsService) GetDashboardAnalytics() (*models.DashboardAnalytics, error) {
	leafCounts, err := s.analyticsRepo.GetLeafStatusCounts()
	if err != nil {
		return nil, err
	}
	fruitCounts, err := s.analyticsRepo.GetFruitStatusCounts()
	if err != nil {
		return nil, err
	}
	topDiseases, err := s.analyticsRepo.GetTopDiseases(topChartLimit)
	if err != nil {
		return nil, err
	}
	topStages, err := s.analyticsRepo.GetTopRipenessStages(topChartLimit)
	if err != nil {
		return nil, err
	}
	validated, err := s.validationRepo.CountByStatus(models.ValidationValidated)
	if err != nil {
		return nil, err
	}
	corrected, err := s.validationRepo.CountByStatus(models.ValidationCorrected)
	if err != nil {
		return nil, err
	}
	pendingUsers, err := s.profileRepo.CountPendingProfiles()
	if err != nil {
		return nil, err
	}

	analytics := &models.DashboardAnalytics{
		LeafStatusCounts:  leafCounts,
		FruitStatusCounts: fruitCounts,
		TopDiseases:       topDiseases,
		TopRipenessStages: topStages,
		ValidatedCount:    validated,
		CorrectedCount:    corrected,
		PendingUsers:      pendingUsers,
	}

	if total := validated + corrected; total > 0 {
		analytics.AgreementRate = float64(validated) / float64(total)
	}

	return analytics, nil
}
