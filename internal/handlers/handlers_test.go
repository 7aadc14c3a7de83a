package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/event"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/models"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/services"
)

type fakeUserService struct {
	profiles    map[string]*models.Profile
	registerErr error
}

var _ services.IUserService = (*fakeUserService)(nil)

func newFakeUserService() *fakeUserService {
	return &fakeUserService{profiles: map[string]*models.Profile{}}
}

func (f *fakeUserService) addProfile(role models.Role, status models.ProfileStatus) *models.Profile {
	p := &models.Profile{
		ID:     uuid.NewString(),
		Email:  fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		Role:   role,
		Status: status,
	}
	f.profiles[p.ID] = p
	return p
}

func (f *fakeUserService) Register(email, password, username, fullName string) (*models.Profile, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	for _, p := range f.profiles {
		if p.Email == email {
			return nil, fmt.Errorf("account with this email already exists")
		}
	}
	p := &models.Profile{
		ID:     uuid.NewString(),
		Email:  email,
		Role:   models.RoleExpert,
		Status: models.ProfilePending,
	}
	f.profiles[p.ID] = p
	return p, nil
}

func (f *fakeUserService) Login(email, password string) (*models.Profile, string, error) {
	return nil, "", fmt.Errorf("email or password incorrect")
}

func (f *fakeUserService) GetProfile(userID string) (*models.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("profile not found")
	}
	return p, nil
}

func (f *fakeUserService) GetAllProfiles() ([]*models.Profile, error) {
	var out []*models.Profile
	for _, p := range f.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeUserService) ApproveUser(userID string) error {
	p, ok := f.profiles[userID]
	if !ok || p.Status != models.ProfilePending {
		return fmt.Errorf("profile not found or not pending")
	}
	p.Status = models.ProfileApproved
	return nil
}

func (f *fakeUserService) RejectUser(userID string) error {
	p, ok := f.profiles[userID]
	if !ok || p.Status != models.ProfilePending {
		return fmt.Errorf("profile not found or not pending")
	}
	p.Status = models.ProfileRejected
	return nil
}

func (f *fakeUserService) EnsureBootstrapAdmin(email, password string) error { return nil }

type fakeScanService struct {
	feed *services.ScanFeed
}

var _ services.IScanService = (*fakeScanService)(nil)

func (f *fakeScanService) GetScanFeed(context.Context) (*services.ScanFeed, error) {
	if f.feed == nil {
		return &services.ScanFeed{}, nil
	}
	return f.feed, nil
}

func (f *fakeScanService) InvalidateFeedCache(context.Context) {}
func (f *fakeScanService) HandleChange(event.ChangeEvent)      {}

type fakeValidationService struct {
	lastRecord *models.ValidationHistory
	history    map[string][]*models.ValidationHistory
	err        error
}

var _ services.IValidationService = (*fakeValidationService)(nil)

func (f *fakeValidationService) ValidateScan(_ context.Context, expertID, scanUUID string, req *models.ValidateScanRequest) (*models.ValidationHistory, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastRecord = &models.ValidationHistory{
		ScanID:   scanUUID,
		ScanType: req.ScanType,
		ExpertID: expertID,
		Status:   models.ValidationValidated,
	}
	return f.lastRecord, nil
}

func (f *fakeValidationService) ScanHistory(_ context.Context, scanUUID string) ([]*models.ValidationHistory, error) {
	if f.err != nil {
		return nil, f.err
	}
	records, ok := f.history[scanUUID]
	if !ok {
		return nil, fmt.Errorf("scan not found")
	}
	return records, nil
}

type fakeDiseaseService struct {
	rows map[string]*models.DiseaseInfo
}

var _ services.IDiseaseInfoService = (*fakeDiseaseService)(nil)

func (f *fakeDiseaseService) ListDiseaseInfo() ([]*models.DiseaseInfo, error) {
	var out []*models.DiseaseInfo
	for _, row := range f.rows {
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeDiseaseService) UpdateDiseaseInfo(_ context.Context, editorID, diseaseID string, req *models.DiseaseInfoUpdateRequest) (*models.DiseaseInfo, error) {
	row, ok := f.rows[diseaseID]
	if !ok {
		return nil, fmt.Errorf("disease info not found")
	}
	if !req.Force && !row.UpdatedAt.Equal(req.UpdatedAt) {
		return nil, &services.ErrEditConflict{Current: row}
	}
	row.DiseaseName = req.DiseaseName
	row.LastUpdatedBy = editorID
	return row, nil
}

type testEnv struct {
	router      *gin.Engine
	jwt         *services.JWTService
	userService *fakeUserService
	scans       *fakeScanService
	validations *fakeValidationService
	diseases    *fakeDiseaseService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		jwt:         services.NewJWTService("test-secret", time.Hour),
		userService: newFakeUserService(),
		scans:       &fakeScanService{},
		validations: &fakeValidationService{},
		diseases:    &fakeDiseaseService{rows: make(map[string]*models.DiseaseInfo)},
	}

	middleware := NewMiddleware(env.jwt, env.userService)
	env.router = gin.New()
	NewAuthHandler(env.userService).RegisterRoutes(env.router)
	NewUserHandler(env.userService, middleware).RegisterRoutes(env.router)
	NewScanHandler(env.scans, env.validations, middleware).RegisterRoutes(env.router)
	NewDiseaseInfoHandler(env.diseases, middleware).RegisterRoutes(env.router)

	return env
}

func (e *testEnv) tokenFor(t *testing.T, p *models.Profile) string {
	t.Helper()
	token, err := e.jwt.GenerateNewToken(p.ID, p.Email)
	if err != nil {
		t.Fatalf("failed to issue test token: %v", err)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body.Error.Code, body.Error.Message
}
