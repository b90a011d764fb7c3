package club

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// memStore is an in-memory Store used in place of Firestore.
type memStore struct {
	clubs map[string]*Club
	seq   int
}

func newMemStore() *memStore {
	return &memStore{clubs: map[string]*Club{}}
}

func (m *memStore) Create(_ context.Context, c Club) (*Club, error) {
	m.seq++
	if c.ID == "" {
		c.ID = fmt.Sprintf("club-%d", m.seq)
	}
	cp := c
	m.clubs[c.ID] = &cp
	return &cp, nil
}

func (m *memStore) Get(_ context.Context, clubID string) (*Club, error) {
	c, ok := m.clubs[clubID]
	if !ok {
		return nil, errors.New("missing document")
	}
	cp := *c
	cp.Members = append([]Member(nil), c.Members...)
	cp.PendingMembers = append([]PendingMember(nil), c.PendingMembers...)
	return &cp, nil
}

func (m *memStore) Search(_ context.Context, _ string, _ int) ([]Club, error) {
	out := []Club{}
	for _, c := range m.clubs {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memStore) CommitMembers(_ context.Context, clubID string, pending []PendingMember, members []Member) error {
	c, ok := m.clubs[clubID]
	if !ok {
		return errors.New("missing document")
	}
	c.PendingMembers = pending
	c.Members = members
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *memStore) UpdateFields(_ context.Context, clubID string, _ map[string]interface{}) error {
	if _, ok := m.clubs[clubID]; !ok {
		return errors.New("missing document")
	}
	return nil
}

func seedClub(t *testing.T, store *memStore, pending ...PendingMember) *Club {
	t.Helper()
	c, err := store.Create(context.Background(), Club{
		ID:       "C1",
		Name:     "Happy Dogs",
		OwnerUID: "owner-1",
		Members: []Member{{
			UserID: "owner-1", Email: "o@x.com", Name: "Owner",
			JoinedAt: time.Now().UTC(), Role: RoleOwner,
		}},
		PendingMembers: pending,
		EducatorIds:    []string{},
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestApproveMovesPendingToMembers(t *testing.T) {
	store := newMemStore()
	seedClub(t, store, PendingMember{
		UserID: "u1", Email: "a@x.com", Name: "A",
		RequestedAt: time.Now().UTC(), Status: StatusPending,
	})
	svc := NewService(store, nil)

	got, err := svc.ApproveOrRejectMember(context.Background(), "owner-1", ApproveRejectInput{
		ClubID: "C1", UserID: "u1", Email: "a@x.com", Name: "A", Action: "approve",
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(got.PendingMembers) != 0 {
		t.Errorf("pendingMembers = %v, want empty", got.PendingMembers)
	}
	count := 0
	for _, m := range got.Members {
		if m.UserID == "u1" {
			count++
			if m.Role != RoleMember {
				t.Errorf("role = %q, want %q", m.Role, RoleMember)
			}
			if m.Email != "a@x.com" || m.Name != "A" {
				t.Errorf("member entry = %+v", m)
			}
			if m.JoinedAt.IsZero() {
				t.Error("joinedAt not set")
			}
		}
	}
	if count != 1 {
		t.Errorf("u1 appears %d times in members, want exactly 1", count)
	}

	// stored state matches the returned state
	stored, _ := store.Get(context.Background(), "C1")
	if stored.HasPending("u1") || !stored.HasMember("u1") {
		t.Errorf("stored club inconsistent: %+v", stored)
	}
}

func TestRejectOnlyRemoves(t *testing.T) {
	store := newMemStore()
	seedClub(t, store, PendingMember{
		UserID: "u1", Email: "a@x.com", Name: "A",
		RequestedAt: time.Now().UTC(), Status: StatusPending,
	})
	svc := NewService(store, nil)

	got, err := svc.ApproveOrRejectMember(context.Background(), "owner-1", ApproveRejectInput{
		ClubID: "C1", UserID: "u1", Action: "reject",
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.HasPending("u1") {
		t.Error("u1 still pending after reject")
	}
	if got.HasMember("u1") {
		t.Error("u1 became a member on reject")
	}
}

func TestDoubleActionFailsNotFound(t *testing.T) {
	for _, action := range []string{"approve", "reject"} {
		t.Run(action, func(t *testing.T) {
			store := newMemStore()
			seedClub(t, store, PendingMember{
				UserID: "u1", Email: "a@x.com", Name: "A",
				RequestedAt: time.Now().UTC(), Status: StatusPending,
			})
			svc := NewService(store, nil)

			in := ApproveRejectInput{ClubID: "C1", UserID: "u1", Action: action}
			if _, err := svc.ApproveOrRejectMember(context.Background(), "owner-1", in); err != nil {
				t.Fatal(err)
			}
			_, err := svc.ApproveOrRejectMember(context.Background(), "owner-1", in)
			if !IsErrNotFound(err) {
				t.Errorf("second %s: err = %v, want ErrNotFound", action, err)
			}
		})
	}
}

func TestApproveRequiresOwner(t *testing.T) {
	store := newMemStore()
	seedClub(t, store, PendingMember{UserID: "u1", Status: StatusPending})
	svc := NewService(store, nil)

	_, err := svc.ApproveOrRejectMember(context.Background(), "someone-else", ApproveRejectInput{
		ClubID: "C1", UserID: "u1", Action: "approve",
	})
	if !IsErrUnauthorized(err) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestApproveUnknownClub(t *testing.T) {
	svc := NewService(newMemStore(), nil)
	_, err := svc.ApproveOrRejectMember(context.Background(), "owner-1", ApproveRejectInput{
		ClubID: "nope", UserID: "u1", Action: "approve",
	})
	if !IsErrNotFound(err) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestApproveInvalidAction(t *testing.T) {
	store := newMemStore()
	seedClub(t, store)
	svc := NewService(store, nil)
	_, err := svc.ApproveOrRejectMember(context.Background(), "owner-1", ApproveRejectInput{
		ClubID: "C1", UserID: "u1", Action: "promote",
	})
	if !IsErrBadRequest(err) {
		t.Errorf("err = %v, want ErrBadRequest", err)
	}
}

func TestRequestJoin(t *testing.T) {
	store := newMemStore()
	seedClub(t, store)
	svc := NewService(store, nil)

	pm, err := svc.RequestJoin(context.Background(), "u2", RequestJoinInput{
		ClubID: "C1", Email: "b@x.com", Name: "B",
	})
	if err != nil {
		t.Fatal(err)
	}
	if pm.Status != StatusPending {
		t.Errorf("status = %q", pm.Status)
	}

	// duplicate request conflicts
	_, err = svc.RequestJoin(context.Background(), "u2", RequestJoinInput{
		ClubID: "C1", Email: "b@x.com", Name: "B",
	})
	if !IsErrConflict(err) {
		t.Errorf("duplicate request: err = %v, want ErrConflict", err)
	}

	// an approved member cannot request again
	_, err = svc.RequestJoin(context.Background(), "owner-1", RequestJoinInput{
		ClubID: "C1", Email: "o@x.com", Name: "Owner",
	})
	if !IsErrConflict(err) {
		t.Errorf("member request: err = %v, want ErrConflict", err)
	}
}

func TestNeverInBothArrays(t *testing.T) {
	store := newMemStore()
	seedClub(t, store, PendingMember{
		UserID: "u1", Email: "a@x.com", Name: "A",
		RequestedAt: time.Now().UTC(), Status: StatusPending,
	})
	svc := NewService(store, nil)

	if _, err := svc.ApproveOrRejectMember(context.Background(), "owner-1", ApproveRejectInput{
		ClubID: "C1", UserID: "u1", Action: "approve",
	}); err != nil {
		t.Fatal(err)
	}

	c, _ := store.Get(context.Background(), "C1")
	for _, m := range c.Members {
		if c.HasPending(m.UserID) {
			t.Errorf("user %s present in both members and pendingMembers", m.UserID)
		}
	}
}

func TestRemoveMember(t *testing.T) {
	store := newMemStore()
	c := seedClub(t, store)
	c.Members = append(c.Members, Member{UserID: "u1", Role: RoleMember, JoinedAt: time.Now().UTC()})
	store.clubs["C1"].Members = c.Members
	svc := NewService(store, nil)

	if err := svc.RemoveMember(context.Background(), "owner-1", "C1", "u1"); err != nil {
		t.Fatal(err)
	}
	got, _ := store.Get(context.Background(), "C1")
	if got.HasMember("u1") {
		t.Error("u1 still a member after removal")
	}

	// owner cannot be removed
	if err := svc.RemoveMember(context.Background(), "owner-1", "C1", "owner-1"); !IsErrBadRequest(err) {
		t.Errorf("removing owner: err = %v, want ErrBadRequest", err)
	}
}

func TestCreateClubSeedsOwner(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)

	c, err := svc.CreateClub(context.Background(), "owner-9", CreateClubInput{
		Name: "Agility  Masters", City: "Lyon",
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.Slug != "agility-masters" {
		t.Errorf("slug = %q", c.Slug)
	}
	if !c.IsOwner("owner-9") {
		t.Error("creator is not owner")
	}
	if len(c.Members) != 1 || c.Members[0].Role != RoleOwner {
		t.Errorf("members = %+v", c.Members)
	}
}
