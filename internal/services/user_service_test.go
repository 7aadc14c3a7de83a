package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/models"
)

func newTestUserService(repo *fakeProfileRepo) IUserService {
	jwtService := NewJWTService("test-secret", time.Hour)
	return NewUserService(repo, jwtService, nil)
}

func TestRegister_CreatesPendingExpert(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newTestUserService(repo)

	profile, err := svc.Register("expert@example.com", "password123", "expert1", "Expert One")

	assert.NoError(t, err)
	assert.Equal(t, models.RoleExpert, profile.Role)
	assert.Equal(t, models.ProfilePending, profile.Status)
	assert.Len(t, repo.authUsers, 1)
	assert.Len(t, repo.profiles, 1)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newTestUserService(repo)

	_, err := svc.Register("expert@example.com", "password123", "expert1", "Expert One")
	assert.NoError(t, err)

	_, err = svc.Register("expert@example.com", "password456", "expert2", "Expert Two")
	assert.ErrorContains(t, err, "already exists")
	assert.Len(t, repo.authUsers, 1, "no second identity may be created")
}

func TestRegister_RollsBackIdentityOnProfileFailure(t *testing.T) {
	repo := newFakeProfileRepo()
	repo.createProfileErr = fmt.Errorf("insert failed")
	svc := newTestUserService(repo)

	_, err := svc.Register("expert@example.com", "password123", "expert1", "Expert One")

	assert.Error(t, err)
	assert.Empty(t, repo.authUsers, "auth identity must be rolled back")
	assert.Len(t, repo.deletedAuthIDs, 1, "rollback delete must have run")
}

func TestLogin_ReadsRoleFromProfileRow(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newTestUserService(repo)

	created, err := svc.Register("expert@example.com", "password123", "expert1", "Expert One")
	assert.NoError(t, err)

	// approve out of band, the way an admin action would
	repo.profiles[created.ID].Status = models.ProfileApproved

	profile, token, err := svc.Login("expert@example.com", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, models.ProfileApproved, profile.Status)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newTestUserService(repo)

	_, err := svc.Register("expert@example.com", "password123", "expert1", "Expert One")
	assert.NoError(t, err)

	_, _, err = svc.Login("expert@example.com", "wrong-password")
	assert.ErrorContains(t, err, "email or password incorrect")
}

func TestApproveUser_IdempotentSecondCall(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newTestUserService(repo)

	created, err := svc.Register("expert@example.com", "password123", "expert1", "Expert One")
	assert.NoError(t, err)

	assert.NoError(t, svc.ApproveUser(created.ID))

	err = svc.ApproveUser(created.ID)
	assert.ErrorContains(t, err, "not found or not pending", "second approve must not change state")
	assert.Equal(t, models.ProfileApproved, repo.profiles[created.ID].Status)
}

func TestEnsureBootstrapAdmin(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newTestUserService(repo)

	assert.NoError(t, svc.EnsureBootstrapAdmin("admin@example.com", "admin-password"))
	admins, _ := repo.CountAdmins()
	assert.EqualValues(t, 1, admins)

	// a second run must not create another admin
	assert.NoError(t, svc.EnsureBootstrapAdmin("admin2@example.com", "other-password"))
	admins, _ = repo.CountAdmins()
	assert.EqualValues(t, 1, admins)
}
