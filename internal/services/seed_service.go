package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/models"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/repository"
)

type ISeedService interface {
	EnsureBaselineDiseaseInfo() error
	SeedDemoScans() error
}

// SeedService fills a fresh database: baseline knowledge-base entries on
// every start, demo scans only when the flag is set and the tables are
// empty.
type SeedService struct {
	diseaseRepo repository.IDiseaseInfoRepository
	scanRepo    repository.IScanRepository
}

func NewSeedService(diseaseRepo repository.IDiseaseInfoRepository, scanRepo repository.IScanRepository) ISeedService {
	return &SeedService{
		diseaseRepo: diseaseRepo,
		scanRepo:    scanRepo,
	}
}

func baselineDiseaseInfo() []*models.DiseaseInfo {
	return []*models.DiseaseInfo{
		{
			DiseaseID:     "downy-mildew",
			DiseaseName:   "Downy Mildew",
			DescriptionEN: "Fungal infection producing yellow angular spots on the upper leaf surface.",
			DescriptionBI: "Impeksyon sa fungus nga mopatunghag dalag nga mga mantsa sa ibabaw sa dahon.",
			SymptomsEN:    "Yellow patches between leaf veins, gray mold on the underside.",
			SymptomsBI:    "Dalag nga mga bahin taliwala sa mga ugat sa dahon, abohon nga agup-op sa ilalom.",
			TreatmentEN:   "Apply a copper-based fungicide and remove infected leaves.",
			TreatmentBI:   "Ibutang ang fungicide nga adunay copper ug kuhaa ang mga dahon nga naimpeksyon.",
			PreventionEN:  "Improve air circulation and avoid overhead watering.",
			PreventionBI:  "Pauswaga ang agos sa hangin ug likayi ang pagbisbis gikan sa ibabaw.",
		},
		{
			DiseaseID:     "powdery-mildew",
			DiseaseName:   "Powdery Mildew",
			DescriptionEN: "White powdery fungal growth covering leaves and stems.",
			DescriptionBI: "Puti nga pulbos nga fungus nga motabon sa mga dahon ug punoan.",
			SymptomsEN:    "White powder-like coating, leaves curl and dry out.",
			SymptomsBI:    "Puti nga morag pulbos nga tabon, ang mga dahon mokulo ug mauga.",
			TreatmentEN:   "Spray sulfur or potassium bicarbonate at first sign.",
			TreatmentBI:   "Ispreyhi og sulfur o potassium bicarbonate sa unang timailhan.",
			PreventionEN:  "Plant in full sun and keep foliage dry.",
			PreventionBI:  "Itanom sa dapit nga init sa adlaw ug hinloi nga uga ang mga dahon.",
		},
		{
			DiseaseID:     "fusarium-wilt",
			DiseaseName:   "Fusarium Wilt",
			DescriptionEN: "Soil-borne fungal disease blocking the plant's water transport.",
			DescriptionBI: "Sakit gikan sa yuta nga mobabag sa agianan sa tubig sa tanom.",
			SymptomsEN:    "Wilting during the day, yellowing of older leaves first.",
			SymptomsBI:    "Pagkalaya sa adlaw, paglurang sa mga karaan nga dahon pag-una.",
			TreatmentEN:   "No cure once established, remove and destroy infected plants.",
			TreatmentBI:   "Walay tambal kung naigo na, kuhaa ug sunoga ang mga tanom nga naimpeksyon.",
			PreventionEN:  "Rotate crops and use resistant varieties.",
			PreventionBI:  "Ilisi ang mga tanom matag tuig ug gamita ang mga lahi nga lig-on sa sakit.",
		},
		{
			DiseaseID:     "mosaic-virus",
			DiseaseName:   "Mosaic Virus",
			DescriptionEN: "Viral infection spread by aphids causing mottled leaf patterns.",
			DescriptionBI: "Impeksyon sa virus nga ginadala sa mga aphid nga mopatunghag bulak-bulak nga dahon.",
			SymptomsEN:    "Mottled light and dark green areas, stunted growth.",
			SymptomsBI:    "Bulak-bulak nga hayag ug ngitngit nga berde, hinay nga pagtubo.",
			TreatmentEN:   "Remove infected plants, control aphids.",
			TreatmentBI:   "Kuhaa ang mga tanom nga naimpeksyon, pugngi ang mga aphid.",
			PreventionEN:  "Use virus-free seed and control insect vectors.",
			PreventionBI:  "Gamita ang liso nga walay virus ug pugngi ang mga insekto.",
		},
	}
}

// EnsureBaselineDiseaseInfo inserts the canonical entries that are missing.
// Existing rows are left alone so expert edits survive restarts.
func (s *SeedService) EnsureBaselineDiseaseInfo() error {
	for _, info := range baselineDiseaseInfo() {
		_, err := s.diseaseRepo.GetDiseaseInfoByID(info.DiseaseID)
		if err == nil {
			continue
		}
		if !strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("failed to check disease info %s: %w", info.DiseaseID, err)
		}
		if err := s.diseaseRepo.UpsertDiseaseInfo(info); err != nil {
			return fmt.Errorf("failed to seed disease info %s: %w", info.DiseaseID, err)
		}
		log.Printf("Seeded disease info entry %s", info.DiseaseID)
	}
	return nil
}

// SeedDemoScans creates sample pending scans so a fresh deployment has
// something on the validation feed. It refuses to touch tables that
// already hold data.
func (s *SeedService) SeedDemoScans() error {
	leaf, err := s.scanRepo.GetAllLeafScans()
	if err != nil {
		return fmt.Errorf("failed to check leaf scans: %w", err)
	}
	fruit, err := s.scanRepo.GetAllFruitScans()
	if err != nil {
		return fmt.Errorf("failed to check fruit scans: %w", err)
	}
	if len(leaf) > 0 || len(fruit) > 0 {
		log.Printf("Scan tables not empty, skipping demo seed")
		return nil
	}

	farmerID := uuid.NewString()
	solution := "Apply a copper-based fungicide and remove infected leaves."
	recommendation := "Re-scan the plant after one week of treatment."
	leafScans := []*models.LeafDiseaseScan{
		{
			ScanUUID:        uuid.NewString(),
			FarmerID:        farmerID,
			ImageURL:        "demo/leaf-downy-mildew.jpg",
			DiseaseDetected: "Downy Mildew",
			Solution:        &solution,
			Recommendation:  &recommendation,
			Status:          models.ScanPending,
		},
		{
			ScanUUID:        uuid.NewString(),
			FarmerID:        farmerID,
			ImageURL:        "demo/leaf-healthy.jpg",
			DiseaseDetected: "Healthy",
			Status:          models.ScanPending,
		},
	}
	for _, scan := range leafScans {
		if err := s.scanRepo.CreateLeafScan(scan); err != nil {
			return fmt.Errorf("failed to seed leaf scan: %w", err)
		}
	}

	harvest := "Harvest within 2 to 3 days."
	fruitScan := &models.FruitRipenessScan{
		ScanUUID:              uuid.NewString(),
		FarmerID:              farmerID,
		ImageURL:              "demo/fruit-ripe.jpg",
		RipenessStage:         "Ripe",
		HarvestRecommendation: &harvest,
		Status:                models.ScanPending,
	}
	if err := s.scanRepo.CreateFruitScan(fruitScan); err != nil {
		return fmt.Errorf("failed to seed fruit scan: %w", err)
	}

	log.Printf("Seeded %d demo leaf scans and 1 demo fruit scan", len(leafScans))
	return nil
}
