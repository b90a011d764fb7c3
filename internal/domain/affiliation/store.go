package affiliation

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	InvitesCollection      = "clubEducatorInvites"
	AffiliationsCollection = "clubEducators"
	ClubsCollection        = "club"
	EducatorsCollection    = "educators"
)

// Store is the persistence surface of the affiliation workflow.
// Lookups return (nil, nil) when the document is absent; the Commit
// methods write every touched document in one atomic batch.
type Store interface {
	GetInvite(ctx context.Context, clubID, educatorID string) (*Invite, error)
	PutInvite(ctx context.Context, inv Invite) error
	GetAffiliation(ctx context.Context, clubID, educatorID string) (*Affiliation, error)

	// CommitAccept writes the accepted invite, creates the affiliation
	// and unions both denormalized id arrays in one batch.
	CommitAccept(ctx context.Context, inv Invite, aff Affiliation) error
	// CommitRemove deletes the affiliation and pulls both denormalized
	// id arrays in one batch.
	CommitRemove(ctx context.Context, clubID, educatorID string) error

	ListInvitesForClub(ctx context.Context, clubID string, onlyPending bool) ([]Invite, error)
	ListInvitesForEducator(ctx context.Context, educatorID string, onlyPending bool) ([]Invite, error)
	ListAffiliationsForClub(ctx context.Context, clubID string) ([]Affiliation, error)
}

type FirestoreStore struct {
	fs *firestore.Client
}

func NewFirestoreStore(fs *firestore.Client) *FirestoreStore {
	return &FirestoreStore{fs: fs}
}

func isMissing(err error) bool {
	return status.Code(err) == codes.NotFound
}

func (s *FirestoreStore) GetInvite(ctx context.Context, clubID, educatorID string) (*Invite, error) {
	doc, err := s.fs.Collection(InvitesCollection).Doc(DocKey(clubID, educatorID)).Get(ctx)
	if err != nil {
		if isMissing(err) {
			return nil, nil
		}
		return nil, err
	}
	var inv Invite
	if err := doc.DataTo(&inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *FirestoreStore) PutInvite(ctx context.Context, inv Invite) error {
	_, err := s.fs.Collection(InvitesCollection).
		Doc(DocKey(inv.ClubID, inv.EducatorID)).
		Set(ctx, inv)
	return err
}

func (s *FirestoreStore) GetAffiliation(ctx context.Context, clubID, educatorID string) (*Affiliation, error) {
	doc, err := s.fs.Collection(AffiliationsCollection).Doc(DocKey(clubID, educatorID)).Get(ctx)
	if err != nil {
		if isMissing(err) {
			return nil, nil
		}
		return nil, err
	}
	var aff Affiliation
	if err := doc.DataTo(&aff); err != nil {
		return nil, err
	}
	return &aff, nil
}

func (s *FirestoreStore) CommitAccept(ctx context.Context, inv Invite, aff Affiliation) error {
	key := DocKey(inv.ClubID, inv.EducatorID)
	now := time.Now().UTC()

	batch := s.fs.Batch()
	batch.Set(s.fs.Collection(InvitesCollection).Doc(key), inv)
	batch.Set(s.fs.Collection(AffiliationsCollection).Doc(key), aff)
	batch.Update(s.fs.Collection(ClubsCollection).Doc(inv.ClubID), []firestore.Update{
		{Path: "educatorIds", Value: firestore.ArrayUnion(inv.EducatorID)},
		{Path: "updatedAt", Value: now},
	})
	batch.Update(s.fs.Collection(EducatorsCollection).Doc(inv.EducatorID), []firestore.Update{
		{Path: "clubIds", Value: firestore.ArrayUnion(inv.ClubID)},
		{Path: "updatedAt", Value: now},
	})
	_, err := batch.Commit(ctx)
	return err
}

func (s *FirestoreStore) CommitRemove(ctx context.Context, clubID, educatorID string) error {
	key := DocKey(clubID, educatorID)
	now := time.Now().UTC()

	batch := s.fs.Batch()
	batch.Delete(s.fs.Collection(AffiliationsCollection).Doc(key))
	batch.Update(s.fs.Collection(ClubsCollection).Doc(clubID), []firestore.Update{
		{Path: "educatorIds", Value: firestore.ArrayRemove(educatorID)},
		{Path: "updatedAt", Value: now},
	})
	batch.Update(s.fs.Collection(EducatorsCollection).Doc(educatorID), []firestore.Update{
		{Path: "clubIds", Value: firestore.ArrayRemove(clubID)},
		{Path: "updatedAt", Value: now},
	})
	_, err := batch.Commit(ctx)
	return err
}

func (s *FirestoreStore) ListInvitesForClub(ctx context.Context, clubID string, onlyPending bool) ([]Invite, error) {
	q := s.fs.Collection(InvitesCollection).Where("clubId", "==", clubID)
	if onlyPending {
		q = q.Where("status", "==", StatusPending)
	}
	return s.listInvites(ctx, q)
}

func (s *FirestoreStore) ListInvitesForEducator(ctx context.Context, educatorID string, onlyPending bool) ([]Invite, error) {
	q := s.fs.Collection(InvitesCollection).Where("educatorId", "==", educatorID)
	if onlyPending {
		q = q.Where("status", "==", StatusPending)
	}
	return s.listInvites(ctx, q)
}

func (s *FirestoreStore) listInvites(ctx context.Context, q firestore.Query) ([]Invite, error) {
	it := q.Documents(ctx)
	out := []Invite{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var inv Invite
		if err := doc.DataTo(&inv); err != nil {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func (s *FirestoreStore) ListAffiliationsForClub(ctx context.Context, clubID string) ([]Affiliation, error) {
	it := s.fs.Collection(AffiliationsCollection).Where("clubId", "==", clubID).Documents(ctx)
	out := []Affiliation{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var aff Affiliation
		if err := doc.DataTo(&aff); err != nil {
			continue
		}
		out = append(out, aff)
	}
	return out, nil
}
