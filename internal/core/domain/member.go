package domain

// MemberRole controls what a member may do through the API.
type MemberRole string

const (
	RoleMember    MemberRole = "MEMBER"
	RoleTreasurer MemberRole = "TREASURER"
	RoleAdmin     MemberRole = "ADMIN"
)

// Member is a cooperative member. Savings/loan entities reference members by ID;
// authentication happens against the stored bcrypt hash.
type Member struct {
	MemberID     string     `json:"memberID"` // Primary Key (UUID)
	MemberNumber string     `json:"memberNumber"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         MemberRole `json:"role"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `json:"isActive"`
	AuditFields
}
