package user

import "time"

type Profile struct {
	UID         string `firestore:"uid" json:"uid"`
	Email       string `firestore:"email,omitempty" json:"email,omitempty"`
	DisplayName string `firestore:"displayName,omitempty" json:"displayName,omitempty"`
	PhotoURL    string `firestore:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	Phone       string `firestore:"phone,omitempty" json:"phone,omitempty"`

	// role は主にフロント側の setDoc で書かれる想定
	Role        string   `firestore:"role,omitempty" json:"role,omitempty"`
	AccountType string   `firestore:"accountType,omitempty" json:"accountType,omitempty"`
	Roles       []string `firestore:"roles,omitempty" json:"roles,omitempty"`

	CreatedAt time.Time `firestore:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt time.Time `firestore:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

func (p Profile) HasRole(r string) bool {
	if p.Role == r || p.AccountType == r {
		return true
	}
	for _, x := range p.Roles {
		if x == r {
			return true
		}
	}
	return false
}
