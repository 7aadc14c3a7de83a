package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/event"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/models"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/repository"
)

type IUserService interface {
	Register(email, password, username, fullName string) (*models.Profile, error)
	Login(email, password string) (*models.Profile, string, error)
	GetProfile(userID string) (*models.Profile, error)
	GetAllProfiles() ([]*models.Profile, error)
	ApproveUser(userID string) error
	RejectUser(userID string) error
	EnsureBootstrapAdmin(email, password string) error
}

type UserService struct {
	profileRepo repository.IProfileRepository
	jwtService  *JWTService
	publisher   event.ChangePublisher
}

func NewUserService(profileRepo repository.IProfileRepository, jwtService *JWTService, publisher event.ChangePublisher) IUserService {
	return &UserService{
		profileRepo: profileRepo,
		jwtService:  jwtService,
		publisher:   publisher,
	}
}

// Register creates the auth identity first, then the profile row with
// status pending. A profile failure rolls the identity back so no orphaned
// credential survives.
func (s *UserService) Register(email, password, username, fullName string) (*models.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.profileRepo.GetProfileByEmail(email); err == nil {
		return nil, fmt.Errorf("account with this email already exists")
	}

	hash, err := s.profileRepo.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	authUser := &models.AuthUser{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.profileRepo.CreateAuthUser(authUser); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, fmt.Errorf("account with this email already exists")
		}
		return nil, fmt.Errorf("failed creating auth identity: %w", err)
	}

	profile := &models.Profile{
		ID:       authUser.ID,
		Email:    email,
		Username: username,
		FullName: fullName,
		Role:     models.RoleExpert,
		Status:   models.ProfilePending,
	}
	if err := s.profileRepo.CreateProfile(profile); err != nil {
		if delErr := s.profileRepo.DeleteAuthUser(authUser.ID); delErr != nil {
			log.Printf("rollback failed, orphaned auth identity %s: %v", authUser.ID, delErr)
		}
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, fmt.Errorf("account with this email already exists")
		}
		return nil, fmt.Errorf("failed creating profile: %w", err)
	}

	s.publish(event.TableProfiles, event.ActionInsert, profile.ID)
	return profile, nil
}

// Login authenticates against auth_users and reads role/status from the
// profile row only. Gating happens at request time, not here: a pending
// expert can log in and will be told why the dashboard is closed.
func (s *UserService) Login(email, password string) (*models.Profile, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	authUser, err := s.profileRepo.GetAuthUserByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("email or password incorrect")
	}

	if !s.profileRepo.CheckPasswordHash(password, authUser.PasswordHash) {
		return nil, "", fmt.Errorf("email or password incorrect")
	}

	profile, err := s.profileRepo.GetProfileByID(authUser.ID)
	if err != nil {
		return nil, "", fmt.Errorf("profile missing for user: %w", err)
	}

	token, err := s.jwtService.GenerateNewToken(profile.ID, profile.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return profile, token, nil
}

func (s *UserService) GetProfile(userID string) (*models.Profile, error) {
	return s.profileRepo.GetProfileByID(userID)
}

func (s *UserService) GetAllProfiles() ([]*models.Profile, error) {
	return s.profileRepo.GetAllProfiles()
}

func (s *UserService) ApproveUser(userID string) error {
	if err := s.profileRepo.ApprovePendingProfile(userID); err != nil {
		return err
	}
	s.publish(event.TableProfiles, event.ActionUpdate, userID)
	return nil
}

func (s *UserService) RejectUser(userID string) error {
	if err := s.profileRepo.RejectPendingProfile(userID); err != nil {
		return err
	}
	s.publish(event.TableProfiles, event.ActionUpdate, userID)
	return nil
}

// EnsureBootstrapAdmin provisions the first admin from config when no
// admin exists yet. This is the only path that creates an approved profile
// without review.
func (s *UserService) EnsureBootstrapAdmin(email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	count, err := s.profileRepo.CountAdmins()
	if err != nil {
		return fmt.Errorf("failed to check for existing admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := s.profileRepo.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	authUser := &models.AuthUser{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(email),
		PasswordHash: hash,
	}
	if err := s.profileRepo.CreateAuthUser(authUser); err != nil {
		return fmt.Errorf("failed creating bootstrap admin identity: %w", err)
	}

	profile := &models.Profile{
		ID:       authUser.ID,
		Email:    authUser.Email,
		Username: "admin",
		FullName: "Administrator",
		Role:     models.RoleAdmin,
		Status:   models.ProfileApproved,
	}
	if err := s.profileRepo.CreateProfile(profile); err != nil {
		if delErr := s.profileRepo.DeleteAuthUser(authUser.ID); delErr != nil {
			log.Printf("bootstrap rollback failed for %s: %v", authUser.ID, delErr)
		}
		return fmt.Errorf("failed creating bootstrap admin profile: %w", err)
	}

	log.Printf("bootstrap admin %s provisioned", authUser.Email)
	return nil
}

func (s *UserService) publish(table string, action event.ChangeAction, rowID string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishChange(context.Background(), table, action, rowID); err != nil {
		log.Printf("failed to publish change event for %s/%s: %v", table, rowID, err)
	}
}
