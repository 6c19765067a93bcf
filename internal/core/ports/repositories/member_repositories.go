package repositories

import (
	"context"

	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
)

// MemberReader defines read operations for members.
type MemberReader interface {
	// FindMemberByID retrieves a member by its unique identifier.
	FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error)

	// FindMemberByEmail retrieves a member by email address.
	FindMemberByEmail(ctx context.Context, email string) (*domain.Member, error)

	// ListMembers retrieves all members ordered by member number.
	ListMembers(ctx context.Context) ([]domain.Member, error)
}

// MemberWriter defines write operations for members.
type MemberWriter interface {
	// SaveMember inserts a new member.
	SaveMember(ctx context.Context, member domain.Member) error

	// UpdateMember updates mutable member fields.
	UpdateMember(ctx context.Context, member domain.Member) error
}

// MemberRepositoryFacade combines all member repository interfaces.
type MemberRepositoryFacade interface {
	MemberReader
	MemberWriter
}
