package services

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/models"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/repository"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/utils"
)

type fakeProfileRepo struct {
	authUsers map[string]*models.AuthUser
	profiles  map[string]*models.Profile

	createProfileErr error
	deletedAuthIDs   []string
}

var _ repository.IProfileRepository = (*fakeProfileRepo)(nil)

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		authUsers: map[string]*models.AuthUser{},
		profiles:  map[string]*models.Profile{},
	}
}

func (f *fakeProfileRepo) CreateAuthUser(user *models.AuthUser) error {
	for _, u := range f.authUsers {
		if u.Email == user.Email {
			return fmt.Errorf("duplicate key value violates unique constraint")
		}
	}
	cpy := *user
	f.authUsers[user.ID] = &cpy
	return nil
}

func (f *fakeProfileRepo) DeleteAuthUser(userID string) error {
	if _, ok := f.authUsers[userID]; !ok {
		return fmt.Errorf("auth user not found")
	}
	delete(f.authUsers, userID)
	f.deletedAuthIDs = append(f.deletedAuthIDs, userID)
	return nil
}

func (f *fakeProfileRepo) GetAuthUserByEmail(email string) (*models.AuthUser, error) {
	for _, u := range f.authUsers {
		if u.Email == email {
			cpy := *u
			return &cpy, nil
		}
	}
	return nil, fmt.Errorf("auth user not found")
}

func (f *fakeProfileRepo) CreateProfile(profile *models.Profile) error {
	if f.createProfileErr != nil {
		return f.createProfileErr
	}
	cpy := *profile
	f.profiles[profile.ID] = &cpy
	return nil
}

func (f *fakeProfileRepo) GetProfileByID(id string) (*models.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile not found")
	}
	cpy := *p
	return &cpy, nil
}

func (f *fakeProfileRepo) GetProfileByEmail(email string) (*models.Profile, error) {
	for _, p := range f.profiles {
		if p.Email == email {
			cpy := *p
			return &cpy, nil
		}
	}
	return nil, fmt.Errorf("profile not found")
}

func (f *fakeProfileRepo) GetAllProfiles() ([]*models.Profile, error) {
	var out []*models.Profile
	for _, p := range f.profiles {
		cpy := *p
		out = append(out, &cpy)
	}
	return out, nil
}

func (f *fakeProfileRepo) GetProfilesByStatus(status models.ProfileStatus) ([]*models.Profile, error) {
	var out []*models.Profile
	for _, p := range f.profiles {
		if p.Status == status {
			cpy := *p
			out = append(out, &cpy)
		}
	}
	return out, nil
}

func (f *fakeProfileRepo) ApprovePendingProfile(userID string) error {
	return f.transition(userID, models.ProfileApproved)
}

func (f *fakeProfileRepo) RejectPendingProfile(userID string) error {
	return f.transition(userID, models.ProfileRejected)
}

func (f *fakeProfileRepo) transition(userID string, to models.ProfileStatus) error {
	p, ok := f.profiles[userID]
	if !ok || p.Status != models.ProfilePending {
		return fmt.Errorf("profile not found or not pending")
	}
	p.Status = to
	return nil
}

func (f *fakeProfileRepo) CountAdmins() (int64, error) {
	var n int64
	for _, p := range f.profiles {
		if p.Role == models.RoleAdmin {
			n++
		}
	}
	return n, nil
}

func (f *fakeProfileRepo) CountPendingProfiles() (int64, error) {
	var n int64
	for _, p := range f.profiles {
		if p.Status == models.ProfilePending {
			n++
		}
	}
	return n, nil
}

func (f *fakeProfileRepo) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(bytes), err
}

func (f *fakeProfileRepo) CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

type fakeScanRepo struct {
	leaf  map[string]*models.LeafDiseaseScan
	fruit map[string]*models.FruitRipenessScan
}

var _ repository.IScanRepository = (*fakeScanRepo)(nil)

func newFakeScanRepo() *fakeScanRepo {
	return &fakeScanRepo{
		leaf:  map[string]*models.LeafDiseaseScan{},
		fruit: map[string]*models.FruitRipenessScan{},
	}
}

func (f *fakeScanRepo) GetAllLeafScans() ([]*models.LeafDiseaseScan, error) {
	var out []*models.LeafDiseaseScan
	for _, s := range f.leaf {
		cpy := *s
		out = append(out, &cpy)
	}
	return out, nil
}

func (f *fakeScanRepo) GetAllFruitScans() ([]*models.FruitRipenessScan, error) {
	var out []*models.FruitRipenessScan
	for _, s := range f.fruit {
		cpy := *s
		out = append(out, &cpy)
	}
	return out, nil
}

func (f *fakeScanRepo) GetLeafScanByUUID(scanUUID string) (*models.LeafDiseaseScan, error) {
	s, ok := f.leaf[scanUUID]
	if !ok {
		return nil, fmt.Errorf("scan not found")
	}
	cpy := *s
	return &cpy, nil
}

func (f *fakeScanRepo) GetFruitScanByUUID(scanUUID string) (*models.FruitRipenessScan, error) {
	s, ok := f.fruit[scanUUID]
	if !ok {
		return nil, fmt.Errorf("scan not found")
	}
	cpy := *s
	return &cpy, nil
}

func (f *fakeScanRepo) UpdateScanStatus(scanType models.ScanType, scanUUID string, status models.ScanStatus) error {
	if scanType == models.ScanTypeFruitMaturity {
		s, ok := f.fruit[scanUUID]
		if !ok {
			return fmt.Errorf("scan not found")
		}
		s.Status = status
		return nil
	}
	s, ok := f.leaf[scanUUID]
	if !ok {
		return fmt.Errorf("scan not found")
	}
	s.Status = status
	return nil
}

func (f *fakeScanRepo) GetPendingScanUUIDs() ([]string, error) {
	var out []string
	for id, s := range f.leaf {
		if s.Status.IsPending() {
			out = append(out, id)
		}
	}
	for id, s := range f.fruit {
		if s.Status.IsPending() {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeScanRepo) CreateLeafScan(scan *models.LeafDiseaseScan) error {
	cpy := *scan
	f.leaf[scan.ScanUUID] = &cpy
	return nil
}

func (f *fakeScanRepo) CreateFruitScan(scan *models.FruitRipenessScan) error {
	cpy := *scan
	f.fruit[scan.ScanUUID] = &cpy
	return nil
}

type fakeValidationRepo struct {
	records []*models.ValidationHistory
}

var _ repository.IValidationRepository = (*fakeValidationRepo)(nil)

func (f *fakeValidationRepo) CreateValidation(record *models.ValidationHistory) error {
	cpy := *record
	f.records = append(f.records, &cpy)
	return nil
}

func (f *fakeValidationRepo) GetAllValidations() ([]*models.ValidationHistory, error) {
	return f.records, nil
}

func (f *fakeValidationRepo) GetValidationsByScanID(scanID string) ([]*models.ValidationHistory, error) {
	var out []*models.ValidationHistory
	for _, r := range f.records {
		if r.ScanID == scanID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeValidationRepo) CountByStatus(status models.ValidationStatus) (int64, error) {
	var n int64
	for _, r := range f.records {
		if r.Status == status {
			n++
		}
	}
	return n, nil
}

type fakeReadStateRepo struct {
	states map[string]*models.NotificationReadState
}

var _ repository.IReadStateRepository = (*fakeReadStateRepo)(nil)

func newFakeReadStateRepo() *fakeReadStateRepo {
	return &fakeReadStateRepo{states: map[string]*models.NotificationReadState{}}
}

func (f *fakeReadStateRepo) GetReadState(userID string) (*models.NotificationReadState, error) {
	s, ok := f.states[userID]
	if !ok {
		return &models.NotificationReadState{
			UserID:      userID,
			ReadScanIDs: utils.NewStringSet(),
			ReadUserIDs: utils.NewStringSet(),
		}, nil
	}
	cpy := *s
	cpy.ReadScanIDs = utils.NewStringSet(s.ReadScanIDs.Slice()...)
	cpy.ReadUserIDs = utils.NewStringSet(s.ReadUserIDs.Slice()...)
	return &cpy, nil
}

func (f *fakeReadStateRepo) SaveReadState(state *models.NotificationReadState) error {
	cpy := *state
	cpy.ReadScanIDs = utils.NewStringSet(state.ReadScanIDs.Slice()...)
	cpy.ReadUserIDs = utils.NewStringSet(state.ReadUserIDs.Slice()...)
	f.states[state.UserID] = &cpy
	return nil
}
