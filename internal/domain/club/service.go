package club

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pawclub/backend/internal/domain/user"
	"pawclub/backend/internal/utils"
)

// UserLookup resolves a uid to a user profile. Satisfied by *user.Repo.
type UserLookup interface {
	Get(ctx context.Context, uid string) (*user.Profile, error)
}

type Service struct {
	store Store
	users UserLookup
}

func NewService(store Store, users UserLookup) *Service {
	return &Service{store: store, users: users}
}

func (s *Service) CreateClub(ctx context.Context, ownerUID string, in CreateClubInput) (*Club, error) {
	in.Trim()
	ownerUID = strings.TrimSpace(ownerUID)

	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrBadRequest)
	}
	if ownerUID == "" {
		return nil, fmt.Errorf("%w: missing uid", ErrUnauthorized)
	}

	now := time.Now().UTC()
	c := Club{
		Name:        in.Name,
		NameLower:   utils.NormalizeNameLower(in.Name),
		Slug:        utils.Slugify(in.Name),
		Description: utils.TrimMax(in.Description, 2000),
		City:        in.City,
		Country:     in.Country,
		OwnerUID:    ownerUID,
		Members: []Member{{
			UserID:   ownerUID,
			Email:    in.OwnerEmail,
			Name:     in.OwnerName,
			JoinedAt: now,
			Role:     RoleOwner,
		}},
		PendingMembers: []PendingMember{},
		EducatorIds:    []string{},
		SearchTokens:   utils.SearchTokens(in.Name, in.City, in.Country),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	return s.store.Create(ctx, c)
}

func (s *Service) GetClub(ctx context.Context, clubID string) (*Club, error) {
	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return nil, fmt.Errorf("%w: clubId is required", ErrBadRequest)
	}
	c, err := s.store.Get(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("%w: club not found", ErrNotFound)
	}
	return c, nil
}

func (s *Service) SearchClubs(ctx context.Context, q string, limit int) ([]Club, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.store.Search(ctx, q, limit)
}

// RequestJoin appends a pending entry for uid. A user already approved
// or already pending is a conflict, never a duplicate entry.
func (s *Service) RequestJoin(ctx context.Context, uid string, in RequestJoinInput) (*PendingMember, error) {
	in.Trim()
	uid = strings.TrimSpace(uid)

	if in.ClubID == "" {
		return nil, fmt.Errorf("%w: clubId is required", ErrBadRequest)
	}
	if uid == "" {
		return nil, fmt.Errorf("%w: missing uid", ErrUnauthorized)
	}
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrBadRequest)
	}

	c, err := s.store.Get(ctx, in.ClubID)
	if err != nil {
		return nil, fmt.Errorf("%w: club not found", ErrNotFound)
	}
	if c.HasMember(uid) {
		return nil, fmt.Errorf("%w: already a member", ErrConflict)
	}
	if c.HasPending(uid) {
		return nil, fmt.Errorf("%w: join request already pending", ErrConflict)
	}

	pm := PendingMember{
		UserID:      uid,
		Email:       in.Email,
		Name:        in.Name,
		RequestedAt: time.Now().UTC(),
		Status:      StatusPending,
	}
	pending := append(c.PendingMembers, pm)

	if err := s.store.CommitMembers(ctx, c.ID, pending, c.Members); err != nil {
		return nil, fmt.Errorf("failed to save join request: %w", err)
	}
	return &pm, nil
}

// ApproveOrRejectMember consumes one pending entry. Approve moves it
// into members with role "member"; reject drops it. Both arrays are
// committed in one batched write. A second call for the same userId
// fails with not-found, it does not silently succeed.
func (s *Service) ApproveOrRejectMember(ctx context.Context, actorUID string, in ApproveRejectInput) (*Club, error) {
	in.Trim()
	actorUID = strings.TrimSpace(actorUID)

	if in.ClubID == "" || in.UserID == "" {
		return nil, fmt.Errorf("%w: clubId and userId are required", ErrBadRequest)
	}
	if in.Action != ActionApprove && in.Action != ActionReject {
		return nil, fmt.Errorf("%w: action must be approve or reject", ErrBadRequest)
	}

	c, err := s.store.Get(ctx, in.ClubID)
	if err != nil {
		return nil, fmt.Errorf("%w: club not found", ErrNotFound)
	}
	if !c.IsOwner(actorUID) {
		return nil, fmt.Errorf("%w: only the club owner can approve or reject", ErrUnauthorized)
	}

	idx := -1
	for i, p := range c.PendingMembers {
		if p.UserID == in.UserID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: pending member not found", ErrNotFound)
	}

	entry := c.PendingMembers[idx]
	pending := make([]PendingMember, 0, len(c.PendingMembers)-1)
	pending = append(pending, c.PendingMembers[:idx]...)
	pending = append(pending, c.PendingMembers[idx+1:]...)

	members := c.Members
	if in.Action == ActionApprove {
		email := in.Email
		if email == "" {
			email = entry.Email
		}
		name := in.Name
		if name == "" {
			name = entry.Name
		}
		members = append(members, Member{
			UserID:   in.UserID,
			Email:    email,
			Name:     name,
			JoinedAt: time.Now().UTC(),
			Role:     RoleMember,
		})
	}

	if err := s.store.CommitMembers(ctx, c.ID, pending, members); err != nil {
		return nil, fmt.Errorf("failed to commit membership: %w", err)
	}

	c.PendingMembers = pending
	c.Members = members
	return c, nil
}

// RemoveMember pulls an approved member out of the club.
func (s *Service) RemoveMember(ctx context.Context, actorUID, clubID, userID string) error {
	actorUID = strings.TrimSpace(actorUID)
	clubID = strings.TrimSpace(clubID)
	userID = strings.TrimSpace(userID)

	if clubID == "" || userID == "" {
		return fmt.Errorf("%w: clubId and userId are required", ErrBadRequest)
	}

	c, err := s.store.Get(ctx, clubID)
	if err != nil {
		return fmt.Errorf("%w: club not found", ErrNotFound)
	}
	// a member may leave on their own; anyone else needs owner rights
	if actorUID != userID && !c.IsOwner(actorUID) {
		return fmt.Errorf("%w: only the club owner can remove members", ErrUnauthorized)
	}
	if userID == c.OwnerUID {
		return fmt.Errorf("%w: the owner cannot be removed", ErrBadRequest)
	}

	idx := -1
	for i, m := range c.Members {
		if m.UserID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: member not found", ErrNotFound)
	}

	members := make([]Member, 0, len(c.Members)-1)
	members = append(members, c.Members[:idx]...)
	members = append(members, c.Members[idx+1:]...)

	if err := s.store.CommitMembers(ctx, c.ID, c.PendingMembers, members); err != nil {
		return fmt.Errorf("failed to commit membership: %w", err)
	}
	return nil
}

// ListMembers returns the membership array with user profiles resolved
// by point-reads (best effort: a missing profile leaves the entry bare).
func (s *Service) ListMembers(ctx context.Context, clubID string) ([]MemberWithProfile, error) {
	c, err := s.GetClub(ctx, clubID)
	if err != nil {
		return nil, err
	}

	out := make([]MemberWithProfile, 0, len(c.Members))
	for _, m := range c.Members {
		mw := MemberWithProfile{Member: m}
		if s.users != nil {
			if p, err := s.users.Get(ctx, m.UserID); err == nil && p != nil {
				mw.DisplayName = p.DisplayName
				mw.PhotoURL = p.PhotoURL
			}
		}
		out = append(out, mw)
	}
	return out, nil
}

// UpdateClub patches profile fields; membership arrays are never
// writable through here.
func (s *Service) UpdateClub(ctx context.Context, actorUID, clubID string, updates map[string]interface{}) error {
	c, err := s.GetClub(ctx, clubID)
	if err != nil {
		return err
	}
	if !c.IsOwner(strings.TrimSpace(actorUID)) {
		return fmt.Errorf("%w: only the club owner can update the club", ErrUnauthorized)
	}

	allowed := map[string]bool{
		"name": true, "description": true, "city": true,
		"country": true, "photoUrl": true,
	}
	patch := map[string]interface{}{}
	for k, v := range updates {
		if allowed[k] {
			patch[k] = v
		}
	}
	if len(patch) == 0 {
		return fmt.Errorf("%w: no updatable fields", ErrBadRequest)
	}
	if name, ok := patch["name"].(string); ok {
		patch["nameLower"] = utils.NormalizeNameLower(name)
		patch["slug"] = utils.Slugify(name)
	}

	if err := s.store.UpdateFields(ctx, clubID, patch); err != nil {
		return fmt.Errorf("failed to update club: %w", err)
	}
	return nil
}
