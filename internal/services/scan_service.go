package services

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/event"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/models"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/repository"
)

const (
	scanFeedCacheKey = "dashboard:scan_feed"
	scanFeedCacheTTL = 30 * time.Second
)

// ImageResolver turns stored object keys into fetchable URLs.
type ImageResolver interface {
	PresignedScanImageURL(ctx context.Context, objectKey string) (string, error)
}

// ScanRecordView is a ScanRecord with the derived prediction serialized
// alongside it for the dashboard table.
type ScanRecordView struct {
	models.ScanRecord
	AIPrediction string `json:"ai_prediction"`
}

// ScanFeed is the merged payload behind GET /api/scans.
type ScanFeed struct {
	Scans   []ScanRecordView            `json:"scans"`
	History []*models.ValidationHistory `json:"validation_history"`
}

type IScanService interface {
	GetScanFeed(ctx context.Context) (*ScanFeed, error)
	InvalidateFeedCache(ctx context.Context)
	HandleChange(evt event.ChangeEvent)
}

type ScanService struct {
	scanRepo       repository.IScanRepository
	validationRepo repository.IValidationRepository
	cache          *redis.Client
	images         ImageResolver
}

func NewScanService(scanRepo repository.IScanRepository, validationRepo repository.IValidationRepository, cache *redis.Client, images ImageResolver) IScanService {
	return &ScanService{
		scanRepo:       scanRepo,
		validationRepo: validationRepo,
		cache:          cache,
		images:         images,
	}
}

// GetScanFeed merges both scan tables newest-first together with the full
// validation history. Results are cached briefly in Redis; change events
// drop the cache so readers never wait out the TTL after a mutation.
func (s *ScanService) GetScanFeed(ctx context.Context) (*ScanFeed, error) {
	if feed := s.cachedFeed(ctx); feed != nil {
		return feed, nil
	}

	leafScans, err := s.scanRepo.GetAllLeafScans()
	if err != nil {
		return nil, err
	}
	fruitScans, err := s.scanRepo.GetAllFruitScans()
	if err != nil {
		return nil, err
	}
	history, err := s.validationRepo.GetAllValidations()
	if err != nil {
		return nil, err
	}

	records := make([]ScanRecordView, 0, len(leafScans)+len(fruitScans))
	for _, scan := range leafScans {
		records = append(records, s.view(ctx, scan.Record()))
	}
	for _, scan := range fruitScans {
		records = append(records, s.view(ctx, scan.Record()))
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	feed := &ScanFeed{Scans: records, History: history}
	s.storeFeed(ctx, feed)
	return feed, nil
}

func (s *ScanService) view(ctx context.Context, rec models.ScanRecord) ScanRecordView {
	if s.images != nil {
		if resolved, err := s.images.PresignedScanImageURL(ctx, rec.ImageURL); err == nil {
			rec.ImageURL = resolved
		} else {
			log.Printf("failed to presign image %s: %v", rec.ImageURL, err)
		}
	}
	return ScanRecordView{ScanRecord: rec, AIPrediction: rec.AIPrediction()}
}

func (s *ScanService) cachedFeed(ctx context.Context) *ScanFeed {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, scanFeedCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var feed ScanFeed
	if err := json.Unmarshal(raw, &feed); err != nil {
		return nil
	}
	return &feed
}

func (s *ScanService) storeFeed(ctx context.Context, feed *ScanFeed) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(feed)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, scanFeedCacheKey, raw, scanFeedCacheTTL).Err(); err != nil {
		log.Printf("failed to cache scan feed: %v", err)
	}
}

func (s *ScanService) InvalidateFeedCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, scanFeedCacheKey).Err(); err != nil {
		log.Printf("failed to invalidate scan feed cache: %v", err)
	}
}

// HandleChange is the subscription manager's event sink. Any change to a
// watched scan or validation table drops the feed cache.
func (s *ScanService) HandleChange(evt event.ChangeEvent) {
	switch evt.Table {
	case event.TableLeafScans, event.TableFruitScans, event.TableValidation:
		s.InvalidateFeedCache(context.Background())
	}
}
