package affiliation

import (
	"strings"
	"time"
)

// Invite is a directional affiliation proposal, stored at
// clubEducatorInvites/{clubId}_{educatorId}. CreatedByRole records who
// opened it; the counterparty accepts or rejects, the initiator cancels.
type Invite struct {
	ClubID        string    `firestore:"clubId" json:"clubId"`
	EducatorID    string    `firestore:"educatorId" json:"educatorId"`
	Status        string    `firestore:"status" json:"status"`
	CreatedByRole string    `firestore:"createdByRole" json:"createdByRole"` // club / educator
	Message       string    `firestore:"message,omitempty" json:"message,omitempty"`
	CreatedAt     time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// Affiliation is the active club<->educator link, stored at
// clubEducators/{clubId}_{educatorId}. The same pair is additionally
// denormalized into club.educatorIds and educator.clubIds.
type Affiliation struct {
	ClubID       string    `firestore:"clubId" json:"clubId"`
	EducatorID   string    `firestore:"educatorId" json:"educatorId"`
	IsActive     bool      `firestore:"isActive" json:"isActive"`
	LessonsGiven int       `firestore:"lessonsGiven" json:"lessonsGiven"`
	DateJoined   time.Time `firestore:"dateJoined" json:"dateJoined"`
}

const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"

	RoleClub     = "club"
	RoleEducator = "educator"
)

// DocKey builds the shared document key for invites and affiliations.
func DocKey(clubID, educatorID string) string {
	return clubID + "_" + educatorID
}

// IsTerminal reports whether an invite can no longer transition.
func (i *Invite) IsTerminal() bool {
	switch i.Status {
	case StatusAccepted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

type CreateInviteInput struct {
	ClubID     string `json:"clubId"`
	EducatorID string `json:"educatorId"`
	Message    string `json:"message,omitempty"`
}

func (in *CreateInviteInput) Trim() {
	in.ClubID = strings.TrimSpace(in.ClubID)
	in.EducatorID = strings.TrimSpace(in.EducatorID)
	in.Message = strings.TrimSpace(in.Message)
}
