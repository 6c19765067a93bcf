package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/KopSinergi/koperasi_backend/internal/apperrors"
	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
	portsrepo "github.com/KopSinergi/koperasi_backend/internal/core/ports/repositories"
	portssvc "github.com/KopSinergi/koperasi_backend/internal/core/ports/services"
	"github.com/KopSinergi/koperasi_backend/internal/dto"
	"github.com/KopSinergi/koperasi_backend/internal/middleware"
	"github.com/KopSinergi/koperasi_backend/internal/utils"
)

// ErrInvalidCredentials is returned for any login failure so callers cannot
// distinguish a wrong password from an unknown email.
var ErrInvalidCredentials = errors.New("invalid email or password")

// memberService manages the member registry and authentication.
type memberService struct {
	memberRepo portsrepo.MemberRepositoryFacade
}

// NewMemberService creates a new member service.
func NewMemberService(memberRepo portsrepo.MemberRepositoryFacade) portssvc.MemberSvcFacade {
	return &memberService{memberRepo: memberRepo}
}

var _ portssvc.MemberSvcFacade = (*memberService)(nil)

// CreateMember registers a new cooperative member with a hashed password.
func (s *memberService) CreateMember(ctx context.Context, req dto.CreateMemberRequest, creatorID string) (*domain.Member, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := domain.MemberRole(req.Role)
	if role == "" {
		role = domain.RoleMember
	}

	now := time.Now().UTC()
	member := domain.Member{
		MemberID:     uuid.NewString(),
		MemberNumber: req.MemberNumber,
		Name:         req.Name,
		Email:        req.Email,
		Role:         role,
		PasswordHash: hash,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.memberRepo.SaveMember(ctx, member); err != nil {
		logger.Error("Failed to save member", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Member created", slog.String("member_id", member.MemberID), slog.String("member_number", member.MemberNumber))
	return &member, nil
}

// GetMemberByID retrieves one member.
func (s *memberService) GetMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	return s.memberRepo.FindMemberByID(ctx, memberID)
}

// ListMembers retrieves all members.
func (s *memberService) ListMembers(ctx context.Context) ([]domain.Member, error) {
	return s.memberRepo.ListMembers(ctx)
}

// Authenticate verifies credentials and returns the member on success.
func (s *memberService) Authenticate(ctx context.Context, email, password string) (*domain.Member, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	member, err := s.memberRepo.FindMemberByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !member.IsActive {
		logger.Warn("Login attempt for inactive member", slog.String("member_id", member.MemberID))
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, member.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return member, nil
}
