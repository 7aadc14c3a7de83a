package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/models"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/repository"
)

const readStateCacheTTL = 10 * time.Minute

type IReadStateService interface {
	GetReadState(ctx context.Context, userID string) (*models.NotificationReadState, error)
	MarkRead(ctx context.Context, userID string, scanIDs, userIDs []string) (*models.NotificationReadState, error)
	PruneScanMarker(ctx context.Context, scanUUID string) error
}

// ReadStateService keeps per-user read markers. Redis is the fast path,
// Postgres the cross-device source of truth; every read reconciles the
// sets against what is still pending so no marker outlives its referent.
type ReadStateService struct {
	readStateRepo repository.IReadStateRepository
	scanRepo      repository.IScanRepository
	profileRepo   repository.IProfileRepository
	cache         *redis.Client
}

func NewReadStateService(readStateRepo repository.IReadStateRepository, scanRepo repository.IScanRepository, profileRepo repository.IProfileRepository, cache *redis.Client) IReadStateService {
	return &ReadStateService{
		readStateRepo: readStateRepo,
		scanRepo:      scanRepo,
		profileRepo:   profileRepo,
		cache:         cache,
	}
}

func readStateCacheKey(userID string) string {
	return "dashboard:read_state:" + userID
}

func (s *ReadStateService) GetReadState(ctx context.Context, userID string) (*models.NotificationReadState, error) {
	state := s.cachedState(ctx, userID)
	if state == nil {
		var err error
		state, err = s.readStateRepo.GetReadState(userID)
		if err != nil {
			return nil, err
		}
	}

	state, err := s.reconcile(ctx, state)
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (s *ReadStateService) MarkRead(ctx context.Context, userID string, scanIDs, userIDs []string) (*models.NotificationReadState, error) {
	state, err := s.readStateRepo.GetReadState(userID)
	if err != nil {
		return nil, err
	}

	if state.ReadScanIDs == nil {
		state.ReadScanIDs = map[string]struct{}{}
	}
	if state.ReadUserIDs == nil {
		state.ReadUserIDs = map[string]struct{}{}
	}
	for _, id := range scanIDs {
		state.ReadScanIDs[id] = struct{}{}
	}
	for _, id := range userIDs {
		state.ReadUserIDs[id] = struct{}{}
	}

	state, err = s.reconcile(ctx, state)
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// PruneScanMarker is a targeted invalidation when a single scan leaves the
// pending set: the next full reconcile would catch it anyway, this just
// drops the stale cache copy immediately.
func (s *ReadStateService) PruneScanMarker(ctx context.Context, scanUUID string) error {
	if s.cache == nil {
		return nil
	}
	iter := s.cache.Scan(ctx, 0, readStateCacheKey("*"), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan read-state cache keys: %w", err)
	}
	if len(keys) > 0 {
		if err := s.cache.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to drop read-state cache after scan %s: %w", scanUUID, err)
		}
		log.Printf("Dropped %d cached read states after scan %s left the pending set", len(keys), scanUUID)
	}
	return nil
}

// reconcile removes markers whose referent is no longer pending and
// persists only when something was actually pruned.
func (s *ReadStateService) reconcile(ctx context.Context, state *models.NotificationReadState) (*models.NotificationReadState, error) {
	pendingScans, err := s.scanRepo.GetPendingScanUUIDs()
	if err != nil {
		return nil, err
	}
	pendingProfiles, err := s.profileRepo.GetProfilesByStatus(models.ProfilePending)
	if err != nil {
		return nil, err
	}

	pendingScanSet := make(map[string]struct{}, len(pendingScans))
	for _, id := range pendingScans {
		pendingScanSet[id] = struct{}{}
	}
	pendingUserSet := make(map[string]struct{}, len(pendingProfiles))
	for _, p := range pendingProfiles {
		pendingUserSet[p.ID] = struct{}{}
	}

	pruned := false
	for id := range state.ReadScanIDs {
		if _, ok := pendingScanSet[id]; !ok {
			delete(state.ReadScanIDs, id)
			pruned = true
		}
	}
	for id := range state.ReadUserIDs {
		if _, ok := pendingUserSet[id]; !ok {
			delete(state.ReadUserIDs, id)
			pruned = true
		}
	}

	if pruned {
		if err := s.persist(ctx, state); err != nil {
			return nil, err
		}
	}
	return state, nil
}

func (s *ReadStateService) persist(ctx context.Context, state *models.NotificationReadState) error {
	if err := s.readStateRepo.SaveReadState(state); err != nil {
		return err
	}
	s.storeCached(ctx, state)
	return nil
}

func (s *ReadStateService) cachedState(ctx context.Context, userID string) *models.NotificationReadState {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, readStateCacheKey(userID)).Bytes()
	if err != nil {
		return nil
	}
	var state models.NotificationReadState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil
	}
	return &state
}

func (s *ReadStateService) storeCached(ctx context.Context, state *models.NotificationReadState) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, readStateCacheKey(state.UserID), raw, readStateCacheTTL).Err(); err != nil {
		log.Printf("failed to cache read state for %s: %v", state.UserID, err)
	}
}
