package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/models"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/utils"
)

type IProfileRepository interface {
	CreateAuthUser(user *models.AuthUser) error
	DeleteAuthUser(userID string) error
	GetAuthUserByEmail(email string) (*models.AuthUser, error)
	CreateProfile(profile *models.Profile) error
	GetProfileByID(id string) (*models.Profile, error)
	GetProfileByEmail(email string) (*models.Profile, error)
	GetAllProfiles() ([]*models.Profile, error)
	GetProfilesByStatus(status models.ProfileStatus) ([]*models.Profile, error)
	ApprovePendingProfile(userID string) error
	RejectPendingProfile(userID string) error
	CountAdmins() (int64, error)
	CountPendingProfiles() (int64, error)
	HashPassword(password string) (string, error)
	CheckPasswordHash(password, hash string) bool
}

type ProfileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) IProfileRepository {
	return &ProfileRepository{
		db: db,
	}
}

func (r *ProfileRepository) CreateAuthUser(user *models.AuthUser) error {
	query := `
		INSERT INTO auth_users (id, email, password_hash, created_at)
		VALUES (:id, :email, :password_hash, :created_at)
	`

	user.CreatedAt = time.Now()

	_, err := r.db.NamedExec(query, user)
	if err != nil {
		return fmt.Errorf("failed to create auth user: %w", err)
	}

	return nil
}

// DeleteAuthUser removes an identity row. Used to roll registration back
// when the profile insert fails.
func (r *ProfileRepository) DeleteAuthUser(userID string) error {
	err := utils.ExecWithCheck(r.db, `DELETE FROM auth_users WHERE id = $1`, utils.ExecDelete, userID)
	if errors.Is(err, utils.ErrNoRowsAffected) {
		return fmt.Errorf("auth user not found")
	}
	if err != nil {
		return fmt.Errorf("failed to delete auth user: %w", err)
	}
	return nil
}

func (r *ProfileRepository) GetAuthUserByEmail(email string) (*models.AuthUser, error) {
	var user models.AuthUser
	query := `SELECT * FROM auth_users WHERE email = $1`

	err := r.db.Get(&user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("auth user not found")
		}
		return nil, fmt.Errorf("failed to get auth user by email: %w", err)
	}

	return &user, nil
}

func (r *ProfileRepository) CreateProfile(profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, email, username, full_name, role, status, created_at, updated_at)
		VALUES (:id, :email, :username, :full_name, :role, :status, :created_at, :updated_at)
	`

	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()

	_, err := r.db.NamedExec(query, profile)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

func (r *ProfileRepository) GetProfileByID(id string) (*models.Profile, error) {
	var profile models.Profile
	query := `SELECT * FROM profiles WHERE id = $1`

	err := r.db.Get(&profile, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("profile not found")
		}
		return nil, fmt.Errorf("failed to get profile by ID: %w", err)
	}

	return &profile, nil
}

func (r *ProfileRepository) GetProfileByEmail(email string) (*models.Profile, error) {
	var profile models.Profile
	query := `SELECT * FROM profiles WHERE email = $1`

	err := r.db.Get(&profile, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("profile not found")
		}
		return nil, fmt.Errorf("failed to get profile by email: %w", err)
	}

	return &profile, nil
}

func (r *ProfileRepository) GetAllProfiles() ([]*models.Profile, error) {
	var profiles []*models.Profile
	query := `SELECT * FROM profiles ORDER BY created_at DESC`

	err := r.db.Select(&profiles, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get profiles: %w", err)
	}

	return profiles, nil
}

func (r *ProfileRepository) GetProfilesByStatus(status models.ProfileStatus) ([]*models.Profile, error) {
	var profiles []*models.Profile
	query := `SELECT * FROM profiles WHERE status = $1 ORDER BY created_at DESC`

	err := r.db.Select(&profiles, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get profiles by status: %w", err)
	}

	return profiles, nil
}

// ApprovePendingProfile flips pending → approved. The status guard in the
// WHERE clause makes the second approve report zero rows instead of
// rewriting an already-approved profile.
func (r *ProfileRepository) ApprovePendingProfile(userID string) error {
	return r.transitionPendingProfile(userID, models.ProfileApproved)
}

func (r *ProfileRepository) RejectPendingProfile(userID string) error {
	return r.transitionPendingProfile(userID, models.ProfileRejected)
}

func (r *ProfileRepository) transitionPendingProfile(userID string, to models.ProfileStatus) error {
	query := `UPDATE profiles SET status = $1, updated_at = $2 WHERE id = $3 AND status = 'pending'`

	err := utils.ExecWithCheck(r.db, query, utils.ExecUpdate, to, time.Now(), userID)
	if errors.Is(err, utils.ErrNoRowsAffected) {
		return fmt.Errorf("profile not found or not pending")
	}
	if err != nil {
		return fmt.Errorf("failed to update profile status: %w", err)
	}
	return nil
}

func (r *ProfileRepository) CountAdmins() (int64, error) {
	var count int64
	err := r.db.Get(&count, `SELECT COUNT(*) FROM profiles WHERE role = 'admin'`)
	if err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return count, nil
}

func (r *ProfileRepository) CountPendingProfiles() (int64, error) {
	var count int64
	err := r.db.Get(&count, `SELECT COUNT(*) FROM profiles WHERE status = 'pending'`)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending profiles: %w", err)
	}
	return count, nil
}

func (r *ProfileRepository) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func (r *ProfileRepository) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
