package affiliation

import (
	"context"
	"testing"
)

// memStore keeps invites, affiliations and the denormalized id arrays
// in memory; the Commit methods apply all writes together the way the
// Firestore batch does.
type memStore struct {
	invites      map[string]Invite
	affiliations map[string]Affiliation
	educatorIds  map[string][]string // clubID -> educator ids
	clubIds      map[string][]string // educatorID -> club ids
}

func newMemStore() *memStore {
	return &memStore{
		invites:      map[string]Invite{},
		affiliations: map[string]Affiliation{},
		educatorIds:  map[string][]string{},
		clubIds:      map[string][]string{},
	}
}

func union(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

func remove(list []string, v string) []string {
	out := list[:0]
	for _, x := range list {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func (m *memStore) GetInvite(_ context.Context, clubID, educatorID string) (*Invite, error) {
	inv, ok := m.invites[DocKey(clubID, educatorID)]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (m *memStore) PutInvite(_ context.Context, inv Invite) error {
	m.invites[DocKey(inv.ClubID, inv.EducatorID)] = inv
	return nil
}

func (m *memStore) GetAffiliation(_ context.Context, clubID, educatorID string) (*Affiliation, error) {
	aff, ok := m.affiliations[DocKey(clubID, educatorID)]
	if !ok {
		return nil, nil
	}
	return &aff, nil
}

func (m *memStore) CommitAccept(_ context.Context, inv Invite, aff Affiliation) error {
	key := DocKey(inv.ClubID, inv.EducatorID)
	m.invites[key] = inv
	m.affiliations[key] = aff
	m.educatorIds[inv.ClubID] = union(m.educatorIds[inv.ClubID], inv.EducatorID)
	m.clubIds[inv.EducatorID] = union(m.clubIds[inv.EducatorID], inv.ClubID)
	return nil
}

func (m *memStore) CommitRemove(_ context.Context, clubID, educatorID string) error {
	delete(m.affiliations, DocKey(clubID, educatorID))
	m.educatorIds[clubID] = remove(m.educatorIds[clubID], educatorID)
	m.clubIds[educatorID] = remove(m.clubIds[educatorID], clubID)
	return nil
}

func (m *memStore) ListInvitesForClub(_ context.Context, clubID string, onlyPending bool) ([]Invite, error) {
	out := []Invite{}
	for _, inv := range m.invites {
		if inv.ClubID == clubID && (!onlyPending || inv.Status == StatusPending) {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *memStore) ListInvitesForEducator(_ context.Context, educatorID string, onlyPending bool) ([]Invite, error) {
	out := []Invite{}
	for _, inv := range m.invites {
		if inv.EducatorID == educatorID && (!onlyPending || inv.Status == StatusPending) {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *memStore) ListAffiliationsForClub(_ context.Context, clubID string) ([]Affiliation, error) {
	out := []Affiliation{}
	for _, aff := range m.affiliations {
		if aff.ClubID == clubID {
			out = append(out, aff)
		}
	}
	return out, nil
}

func pendingInvite(t *testing.T, store *memStore, createdBy string) {
	t.Helper()
	svc := NewService(store)
	_, err := svc.CreateInviteOrRequest(context.Background(), createdBy, CreateInviteInput{
		ClubID: "C1", EducatorID: "E1",
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestAcceptCreatesAffiliationAndArrays(t *testing.T) {
	store := newMemStore()
	pendingInvite(t, store, RoleClub)
	svc := NewService(store)

	aff, err := svc.AcceptInviteOrRequest(context.Background(), RoleEducator, "C1", "E1")
	if err != nil {
		t.Fatal(err)
	}
	if !aff.IsActive {
		t.Error("affiliation not active")
	}
	if aff.LessonsGiven != 0 {
		t.Errorf("lessonsGiven = %d", aff.LessonsGiven)
	}
	if aff.DateJoined.IsZero() {
		t.Error("dateJoined not set")
	}

	inv := store.invites[DocKey("C1", "E1")]
	if inv.Status != StatusAccepted {
		t.Errorf("invite status = %q, want accepted", inv.Status)
	}
	if !contains(store.educatorIds["C1"], "E1") {
		t.Error("E1 missing from club educatorIds")
	}
	if !contains(store.clubIds["E1"], "C1") {
		t.Error("C1 missing from educator clubIds")
	}
}

func TestAcceptIsIdempotentOnKey(t *testing.T) {
	store := newMemStore()
	pendingInvite(t, store, RoleClub)
	svc := NewService(store)

	if _, err := svc.AcceptInviteOrRequest(context.Background(), RoleEducator, "C1", "E1"); err != nil {
		t.Fatal(err)
	}
	// repeated accepts must not create a second record
	if _, err := svc.AcceptInviteOrRequest(context.Background(), RoleEducator, "C1", "E1"); err != nil {
		t.Fatalf("second accept: %v", err)
	}
	if n := len(store.affiliations); n != 1 {
		t.Errorf("affiliation docs = %d, want 1", n)
	}
	if n := len(store.educatorIds["C1"]); n != 1 {
		t.Errorf("educatorIds = %v", store.educatorIds["C1"])
	}
}

func TestAcceptMissingInvite(t *testing.T) {
	svc := NewService(newMemStore())
	_, err := svc.AcceptInviteOrRequest(context.Background(), RoleEducator, "C1", "E1")
	if !IsErrNotFound(err) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestInitiatorCannotAccept(t *testing.T) {
	store := newMemStore()
	pendingInvite(t, store, RoleClub)
	svc := NewService(store)

	_, err := svc.AcceptInviteOrRequest(context.Background(), RoleClub, "C1", "E1")
	if !IsErrForbidden(err) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}

func TestRejectTouchesNothingElse(t *testing.T) {
	store := newMemStore()
	pendingInvite(t, store, RoleClub)
	svc := NewService(store)

	inv, err := svc.RejectInviteOrRequest(context.Background(), RoleEducator, "C1", "E1")
	if err != nil {
		t.Fatal(err)
	}
	if inv.Status != StatusRejected {
		t.Errorf("status = %q", inv.Status)
	}
	if len(store.affiliations) != 0 {
		t.Error("reject created an affiliation")
	}
	if len(store.educatorIds["C1"]) != 0 || len(store.clubIds["E1"]) != 0 {
		t.Error("reject touched denormalized arrays")
	}
}

func TestCancelOnlyByInitiator(t *testing.T) {
	store := newMemStore()
	pendingInvite(t, store, RoleEducator)
	svc := NewService(store)

	if _, err := svc.CancelInviteOrRequest(context.Background(), RoleClub, "C1", "E1"); !IsErrForbidden(err) {
		t.Errorf("counterparty cancel: err = %v, want ErrForbidden", err)
	}
	inv, err := svc.CancelInviteOrRequest(context.Background(), RoleEducator, "C1", "E1")
	if err != nil {
		t.Fatal(err)
	}
	if inv.Status != StatusCancelled {
		t.Errorf("status = %q", inv.Status)
	}
}

func TestCloseTerminalInviteConflicts(t *testing.T) {
	store := newMemStore()
	pendingInvite(t, store, RoleClub)
	svc := NewService(store)

	if _, err := svc.RejectInviteOrRequest(context.Background(), RoleEducator, "C1", "E1"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.RejectInviteOrRequest(context.Background(), RoleEducator, "C1", "E1"); !IsErrConflict(err) {
		t.Errorf("second reject: err = %v, want ErrConflict", err)
	}
}

func TestReopenAfterRejection(t *testing.T) {
	store := newMemStore()
	pendingInvite(t, store, RoleClub)
	svc := NewService(store)

	if _, err := svc.RejectInviteOrRequest(context.Background(), RoleEducator, "C1", "E1"); err != nil {
		t.Fatal(err)
	}
	inv, err := svc.CreateInviteOrRequest(context.Background(), RoleEducator, CreateInviteInput{
		ClubID: "C1", EducatorID: "E1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if inv.Status != StatusPending {
		t.Errorf("status = %q", inv.Status)
	}
	if inv.CreatedByRole != RoleEducator {
		t.Errorf("createdByRole = %q", inv.CreatedByRole)
	}
}

func TestCreateConflictsWithPendingOrActive(t *testing.T) {
	store := newMemStore()
	pendingInvite(t, store, RoleClub)
	svc := NewService(store)

	_, err := svc.CreateInviteOrRequest(context.Background(), RoleEducator, CreateInviteInput{
		ClubID: "C1", EducatorID: "E1",
	})
	if !IsErrConflict(err) {
		t.Errorf("pending: err = %v, want ErrConflict", err)
	}

	if _, err := svc.AcceptInviteOrRequest(context.Background(), RoleEducator, "C1", "E1"); err != nil {
		t.Fatal(err)
	}
	_, err = svc.CreateInviteOrRequest(context.Background(), RoleClub, CreateInviteInput{
		ClubID: "C1", EducatorID: "E1",
	})
	if !IsErrConflict(err) {
		t.Errorf("active affiliation: err = %v, want ErrConflict", err)
	}
}

func TestRemoveClearsBothArrays(t *testing.T) {
	store := newMemStore()
	pendingInvite(t, store, RoleClub)
	svc := NewService(store)

	if _, err := svc.AcceptInviteOrRequest(context.Background(), RoleEducator, "C1", "E1"); err != nil {
		t.Fatal(err)
	}
	if err := svc.RemoveAffiliation(context.Background(), "C1", "E1"); err != nil {
		t.Fatal(err)
	}

	if _, ok := store.affiliations[DocKey("C1", "E1")]; ok {
		t.Error("affiliation doc still present")
	}
	// both sides of the denormalization must be cleared
	if contains(store.educatorIds["C1"], "E1") {
		t.Error("E1 still in club educatorIds")
	}
	if contains(store.clubIds["E1"], "C1") {
		t.Error("C1 still in educator clubIds")
	}

	if err := svc.RemoveAffiliation(context.Background(), "C1", "E1"); !IsErrNotFound(err) {
		t.Errorf("second remove: err = %v, want ErrNotFound", err)
	}
}
