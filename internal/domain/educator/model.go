package educator

import (
	"strings"
	"time"
)

// Educator is a trainer profile ("educators" collection). ClubIds is
// the denormalized list of clubs the educator is actively affiliated
// with; the authoritative rows live in clubEducators.
type Educator struct {
	ID          string   `firestore:"id" json:"id"`
	DisplayName string   `firestore:"displayName" json:"displayName"`
	Email       string   `firestore:"email,omitempty" json:"email,omitempty"`
	Bio         string   `firestore:"bio,omitempty" json:"bio,omitempty"`
	PhotoURL    string   `firestore:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	City        string   `firestore:"city,omitempty" json:"city,omitempty"`
	Specialties []string `firestore:"specialties,omitempty" json:"specialties,omitempty"`

	ClubIds []string `firestore:"clubIds" json:"clubIds"`

	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}

func (e *Educator) HasClub(clubID string) bool {
	for _, id := range e.ClubIds {
		if id == clubID {
			return true
		}
	}
	return false
}

type UpsertEducatorInput struct {
	DisplayName string   `json:"displayName"`
	Email       string   `json:"email,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	City        string   `json:"city,omitempty"`
	Specialties []string `json:"specialties,omitempty"`
}

func (in *UpsertEducatorInput) Trim() {
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	in.Email = strings.TrimSpace(in.Email)
	in.Bio = strings.TrimSpace(in.Bio)
	in.City = strings.TrimSpace(in.City)
	for i := range in.Specialties {
		in.Specialties[i] = strings.TrimSpace(in.Specialties[i])
	}
}
