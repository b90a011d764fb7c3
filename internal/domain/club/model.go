package club

import (
	"strings"
	"time"
)

// Club represents a dog-training club document ("club" collection).
// Membership lives on the club record itself: approved members in
// Members, outstanding join requests in PendingMembers. A userId is
// never present in both arrays at once.
type Club struct {
	ID          string `firestore:"id" json:"id"`
	Name        string `firestore:"name" json:"name"`
	NameLower   string `firestore:"nameLower" json:"-"`
	Slug        string `firestore:"slug" json:"slug"`
	Description string `firestore:"description,omitempty" json:"description,omitempty"`
	City        string `firestore:"city,omitempty" json:"city,omitempty"`
	Country     string `firestore:"country,omitempty" json:"country,omitempty"`
	PhotoURL    string `firestore:"photoUrl,omitempty" json:"photoUrl,omitempty"`

	OwnerUID string `firestore:"ownerUid" json:"ownerUid"`

	Members        []Member        `firestore:"members" json:"members"`
	PendingMembers []PendingMember `firestore:"pendingMembers" json:"pendingMembers"`
	EducatorIds    []string        `firestore:"educatorIds" json:"educatorIds"`

	SearchTokens []string `firestore:"searchTokens,omitempty" json:"-"`

	StripeCustomerID   string `firestore:"stripeCustomerId,omitempty" json:"-"`
	SubscriptionStatus string `firestore:"subscriptionStatus,omitempty" json:"subscriptionStatus,omitempty"`

	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// Member is an approved club member entry.
type Member struct {
	UserID   string    `firestore:"userId" json:"userId"`
	Email    string    `firestore:"email" json:"email"`
	Name     string    `firestore:"name" json:"name"`
	JoinedAt time.Time `firestore:"joinedAt" json:"joinedAt"`
	Role     string    `firestore:"role" json:"role"` // member / educator / owner
}

// PendingMember is an outstanding join request entry.
type PendingMember struct {
	UserID      string    `firestore:"userId" json:"userId"`
	Email       string    `firestore:"email" json:"email"`
	Name        string    `firestore:"name" json:"name"`
	RequestedAt time.Time `firestore:"requestedAt" json:"requestedAt"`
	Status      string    `firestore:"status" json:"status"` // always "pending"
}

const (
	RoleMember   = "member"
	RoleEducator = "educator"
	RoleOwner    = "owner"

	StatusPending = "pending"

	ActionApprove = "approve"
	ActionReject  = "reject"
)

var ValidRoles = []string{RoleMember, RoleEducator, RoleOwner}

func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// HasMember reports whether uid is an approved member.
func (c *Club) HasMember(uid string) bool {
	for _, m := range c.Members {
		if m.UserID == uid {
			return true
		}
	}
	return false
}

// HasPending reports whether uid has an outstanding join request.
func (c *Club) HasPending(uid string) bool {
	for _, p := range c.PendingMembers {
		if p.UserID == uid {
			return true
		}
	}
	return false
}

// IsOwner reports whether uid may administer the club.
func (c *Club) IsOwner(uid string) bool {
	if c.OwnerUID == uid {
		return true
	}
	for _, m := range c.Members {
		if m.UserID == uid && m.Role == RoleOwner {
			return true
		}
	}
	return false
}

type CreateClubInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	City        string `json:"city,omitempty"`
	Country     string `json:"country,omitempty"`
	OwnerEmail  string `json:"ownerEmail,omitempty"`
	OwnerName   string `json:"ownerName,omitempty"`
}

func (in *CreateClubInput) Trim() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.City = strings.TrimSpace(in.City)
	in.Country = strings.TrimSpace(in.Country)
	in.OwnerEmail = strings.TrimSpace(in.OwnerEmail)
	in.OwnerName = strings.TrimSpace(in.OwnerName)
}

type RequestJoinInput struct {
	ClubID string `json:"clubId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

func (in *RequestJoinInput) Trim() {
	in.ClubID = strings.TrimSpace(in.ClubID)
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
}

// ApproveRejectInput carries one approve/reject action against a
// pending member of a club.
type ApproveRejectInput struct {
	ClubID string `json:"clubId"`
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Action string `json:"action"` // approve / reject
}

func (in *ApproveRejectInput) Trim() {
	in.ClubID = strings.TrimSpace(in.ClubID)
	in.UserID = strings.TrimSpace(in.UserID)
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.Action = strings.ToLower(strings.TrimSpace(in.Action))
}

// MemberWithProfile pairs a member entry with the resolved user profile.
type MemberWithProfile struct {
	Member      Member `json:"member"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoUrl,omitempty"`
}
