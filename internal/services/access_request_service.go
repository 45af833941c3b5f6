package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/staff-management-api/internal/constants"
	"github.com/yukikurage/staff-management-api/internal/models"
	"github.com/yukikurage/staff-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrAccessRequestNotFound   = errors.New("access request not found")
	ErrAccessRequestNotPending = errors.New("access request is not pending")
	ErrAccessRequestPending    = errors.New("an access request for this username is already pending")
	ErrInvalidAccessStatus     = errors.New("invalid access request status")
)

// AccessRequestService handles self-registration and its review by admins.
type AccessRequestService struct {
	userRepo    repository.UserRepository
	requestRepo repository.AccessRequestRepository
	notifier    *Notifier
}

// NewAccessRequestService creates a new AccessRequestService.
func NewAccessRequestService(userRepo repository.UserRepository, requestRepo repository.AccessRequestRepository, notifier *Notifier) *AccessRequestService {
	return &AccessRequestService{
		userRepo:    userRepo,
		requestRepo: requestRepo,
		notifier:    notifier,
	}
}

// SubmitAccessRequestInput is the self-registration form.
type SubmitAccessRequestInput struct {
	Username string
	Email    string
	Name     string
	Password string
}

// Submit stores a pending request. The username must be free among users and
// pending requests.
func (s *AccessRequestService) Submit(input SubmitAccessRequestInput) (*models.AccessRequest, error) {
	username := strings.TrimSpace(input.Username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	pending, err := s.requestRepo.HasPending(username)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending requests: %w", err)
	}
	if pending {
		return nil, ErrAccessRequestPending
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	req := &models.AccessRequest{
		Username:        username,
		PendingUsername: &username,
		Email:           strings.TrimSpace(input.Email),
		Name:            strings.TrimSpace(input.Name),
		PasswordHash:    hash,
		Status:          models.AccessRequestPending,
	}
	if err := s.requestRepo.Create(req); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAccessRequestPending
		}
		return nil, fmt.Errorf("failed to create access request: %w", err)
	}
	return req, nil
}

// List returns requests newest first, optionally filtered by status.
func (s *AccessRequestService) List(status string) ([]models.AccessRequest, error) {
	var filter repository.AccessRequestFilter
	if status != "" {
		st := models.AccessRequestStatus(status)
		switch st {
		case models.AccessRequestPending, models.AccessRequestApproved, models.AccessRequestRejected:
		default:
			return nil, ErrInvalidAccessStatus
		}
		filter.Status = &st
	}
	reqs, err := s.requestRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list access requests: %w", err)
	}
	return reqs, nil
}

func (s *AccessRequestService) findPending(id uint64) (*models.AccessRequest, error) {
	req, err := s.requestRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccessRequestNotFound
		}
		return nil, fmt.Errorf("failed to find access request: %w", err)
	}
	if req.Status != models.AccessRequestPending {
		return nil, ErrAccessRequestNotPending
	}
	return req, nil
}

// Approve creates an approved user from the request. A request can be approved once.
func (s *AccessRequestService) Approve(id uint64) (*models.AccessRequest, *models.User, error) {
	req, err := s.findPending(id)
	if err != nil {
		return nil, nil, err
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: req.PasswordHash,
		Email:        req.Email,
		Name:         req.Name,
		IsApproved:   true,
	}
	if err := s.requestRepo.Approve(req, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrStatusChanged):
			return nil, nil, ErrAccessRequestNotPending
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, nil, ErrUsernameTaken
		default:
			return nil, nil, fmt.Errorf("failed to approve access request: %w", err)
		}
	}

	s.notifier.AccessRequestApproved(req)
	return req, user, nil
}

// Reject closes a pending request without creating a user.
func (s *AccessRequestService) Reject(id uint64) (*models.AccessRequest, error) {
	req, err := s.findPending(id)
	if err != nil {
		return nil, err
	}
	if err := s.requestRepo.UpdateStatus(id, models.AccessRequestRejected); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, ErrAccessRequestNotPending
		}
		return nil, fmt.Errorf("failed to reject access request: %w", err)
	}
	req.Status = models.AccessRequestRejected
	req.PendingUsername = nil

	s.notifier.AccessRequestRejected(req)
	return req, nil
}
