package dto

import "github.com/KopSinergi/koperasi_backend/internal/core/domain"

// CreateMemberRequest defines the payload for registering a member.
type CreateMemberRequest struct {
	MemberNumber string `json:"memberNumber" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	Role         string `json:"role" binding:"omitempty,oneof=MEMBER TREASURER ADMIN"`
}

// LoginRequest defines the payload for member login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	Token    string         `json:"token"`
	Member   MemberResponse `json:"member"`
	TokenTTL string         `json:"tokenTTL"`
}

// MemberResponse defines the data returned for a member.
type MemberResponse struct {
	MemberID     string `json:"memberID"`
	MemberNumber string `json:"memberNumber"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	IsActive     bool   `json:"isActive"`
}

// ToMemberResponse converts a domain.Member to its response DTO.
func ToMemberResponse(m *domain.Member) MemberResponse {
	return MemberResponse{
		MemberID:     m.MemberID,
		MemberNumber: m.MemberNumber,
		Name:         m.Name,
		Email:        m.Email,
		Role:         string(m.Role),
		IsActive:     m.IsActive,
	}
}

// ToMemberResponses converts a slice of members to response DTOs.
func ToMemberResponses(members []domain.Member) []MemberResponse {
	responses := make([]MemberResponse, len(members))
	for i := range members {
		responses[i] = ToMemberResponse(&members[i])
	}
	return responses
}
