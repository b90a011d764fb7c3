package affiliation

import (
	"context"
	"fmt"
	"time"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateInviteOrRequest opens (or reopens) the invite record for a
// club/educator pair. actorRole records the direction: "club" for a
// club-initiated invite, "educator" for an educator-initiated request.
func (s *Service) CreateInviteOrRequest(ctx context.Context, actorRole string, in CreateInviteInput) (*Invite, error) {
	in.Trim()
	if in.ClubID == "" || in.EducatorID == "" {
		return nil, fmt.Errorf("%w: clubId and educatorId are required", ErrBadRequest)
	}
	if actorRole != RoleClub && actorRole != RoleEducator {
		return nil, fmt.Errorf("%w: createdByRole must be club or educator", ErrBadRequest)
	}

	aff, err := s.store.GetAffiliation(ctx, in.ClubID, in.EducatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check affiliation: %w", err)
	}
	if aff != nil && aff.IsActive {
		return nil, fmt.Errorf("%w: educator is already affiliated with this club", ErrConflict)
	}

	existing, err := s.store.GetInvite(ctx, in.ClubID, in.EducatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check invite: %w", err)
	}
	if existing != nil && existing.Status == StatusPending {
		return nil, fmt.Errorf("%w: an invite is already pending", ErrConflict)
	}

	now := time.Now().UTC()
	inv := Invite{
		ClubID:        in.ClubID,
		EducatorID:    in.EducatorID,
		Status:        StatusPending,
		CreatedByRole: actorRole,
		Message:       in.Message,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	// reopening a rejected/cancelled invite keeps its original creation time
	if existing != nil {
		inv.CreatedAt = existing.CreatedAt
	}

	if err := s.store.PutInvite(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to save invite: %w", err)
	}
	return &inv, nil
}

// AcceptInviteOrRequest transitions a pending invite to accepted and,
// in the same batch, creates the affiliation and unions both
// denormalized id arrays. Accepting is for the counterparty of the
// invite's direction. An invite that is already accepted with its
// affiliation in place is a no-op success: the affiliation doc is
// keyed, so repeated accepts can never create a second one.
func (s *Service) AcceptInviteOrRequest(ctx context.Context, actorRole, clubID, educatorID string) (*Affiliation, error) {
	if clubID == "" || educatorID == "" {
		return nil, fmt.Errorf("%w: clubId and educatorId are required", ErrBadRequest)
	}

	inv, err := s.store.GetInvite(ctx, clubID, educatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load invite: %w", err)
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: invite not found", ErrNotFound)
	}

	if inv.Status == StatusAccepted {
		aff, err := s.store.GetAffiliation(ctx, clubID, educatorID)
		if err != nil {
			return nil, fmt.Errorf("failed to load affiliation: %w", err)
		}
		if aff != nil {
			return aff, nil
		}
		// accepted invite without its affiliation: legacy partial state,
		// fall through and repair it below
	} else if inv.IsTerminal() {
		return nil, fmt.Errorf("%w: invite is %s", ErrConflict, inv.Status)
	}

	if actorRole != "" && actorRole == inv.CreatedByRole {
		return nil, fmt.Errorf("%w: the initiator cannot accept its own invite", ErrForbidden)
	}

	now := time.Now().UTC()
	inv.Status = StatusAccepted
	inv.UpdatedAt = now

	aff := Affiliation{
		ClubID:       clubID,
		EducatorID:   educatorID,
		IsActive:     true,
		LessonsGiven: 0,
		DateJoined:   now,
	}

	if err := s.store.CommitAccept(ctx, *inv, aff); err != nil {
		return nil, fmt.Errorf("failed to commit acceptance: %w", err)
	}
	return &aff, nil
}

// RejectInviteOrRequest transitions a pending invite to rejected.
func (s *Service) RejectInviteOrRequest(ctx context.Context, actorRole, clubID, educatorID string) (*Invite, error) {
	return s.close(ctx, actorRole, clubID, educatorID, StatusRejected)
}

// CancelInviteOrRequest withdraws a pending invite; only the side that
// opened it may cancel.
func (s *Service) CancelInviteOrRequest(ctx context.Context, actorRole, clubID, educatorID string) (*Invite, error) {
	return s.close(ctx, actorRole, clubID, educatorID, StatusCancelled)
}

func (s *Service) close(ctx context.Context, actorRole, clubID, educatorID, to string) (*Invite, error) {
	if clubID == "" || educatorID == "" {
		return nil, fmt.Errorf("%w: clubId and educatorId are required", ErrBadRequest)
	}

	inv, err := s.store.GetInvite(ctx, clubID, educatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load invite: %w", err)
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: invite not found", ErrNotFound)
	}
	if inv.Status != StatusPending {
		return nil, fmt.Errorf("%w: invite is %s", ErrConflict, inv.Status)
	}

	if actorRole != "" {
		if to == StatusCancelled && actorRole != inv.CreatedByRole {
			return nil, fmt.Errorf("%w: only the initiator can cancel", ErrForbidden)
		}
		if to == StatusRejected && actorRole == inv.CreatedByRole {
			return nil, fmt.Errorf("%w: the initiator cannot reject its own invite", ErrForbidden)
		}
	}

	inv.Status = to
	inv.UpdatedAt = time.Now().UTC()
	if err := s.store.PutInvite(ctx, *inv); err != nil {
		return nil, fmt.Errorf("failed to save invite: %w", err)
	}
	return inv, nil
}

// RemoveAffiliation deletes the affiliation and pulls the pair out of
// both denormalized arrays in one batch. It is a separate entry point,
// not part of the invite lifecycle.
func (s *Service) RemoveAffiliation(ctx context.Context, clubID, educatorID string) error {
	if clubID == "" || educatorID == "" {
		return fmt.Errorf("%w: clubId and educatorId are required", ErrBadRequest)
	}

	aff, err := s.store.GetAffiliation(ctx, clubID, educatorID)
	if err != nil {
		return fmt.Errorf("failed to load affiliation: %w", err)
	}
	if aff == nil {
		return fmt.Errorf("%w: affiliation not found", ErrNotFound)
	}

	if err := s.store.CommitRemove(ctx, clubID, educatorID); err != nil {
		return fmt.Errorf("failed to remove affiliation: %w", err)
	}
	return nil
}

func (s *Service) GetAffiliation(ctx context.Context, clubID, educatorID string) (*Affiliation, error) {
	aff, err := s.store.GetAffiliation(ctx, clubID, educatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load affiliation: %w", err)
	}
	if aff == nil {
		return nil, fmt.Errorf("%w: affiliation not found", ErrNotFound)
	}
	return aff, nil
}

func (s *Service) ListInvitesForClub(ctx context.Context, clubID string, onlyPending bool) ([]Invite, error) {
	if clubID == "" {
		return nil, fmt.Errorf("%w: clubId is required", ErrBadRequest)
	}
	return s.store.ListInvitesForClub(ctx, clubID, onlyPending)
}

func (s *Service) ListInvitesForEducator(ctx context.Context, educatorID string, onlyPending bool) ([]Invite, error) {
	if educatorID == "" {
		return nil, fmt.Errorf("%w: educatorId is required", ErrBadRequest)
	}
	return s.store.ListInvitesForEducator(ctx, educatorID, onlyPending)
}

func (s *Service) ListAffiliationsForClub(ctx context.Context, clubID string) ([]Affiliation, error) {
	if clubID == "" {
		return nil, fmt.Errorf("%w: clubId is required", ErrBadRequest)
	}
	return s.store.ListAffiliationsForClub(ctx, clubID)
}
