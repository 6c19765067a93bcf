package services

import (
	"context"

	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
	"github.com/KopSinergi/koperasi_backend/internal/dto"
)

// MemberSvcFacade exposes member registry and authentication operations.
type MemberSvcFacade interface {
	CreateMember(ctx context.Context, req dto.CreateMemberRequest, creatorID string) (*domain.Member, error)
	GetMemberByID(ctx context.Context, memberID string) (*domain.Member, error)
	ListMembers(ctx context.Context) ([]domain.Member, error)

	// Authenticate verifies credentials and returns the member on success.
	Authenticate(ctx context.Context, email, password string) (*domain.Member, error)
}
