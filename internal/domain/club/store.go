package club

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

const Collection = "club"

// Store is the persistence surface the membership workflow needs.
// FirestoreStore is the production implementation; tests substitute an
// in-memory fake.
type Store interface {
	Create(ctx context.Context, c Club) (*Club, error)
	Get(ctx context.Context, clubID string) (*Club, error)
	Search(ctx context.Context, q string, limit int) ([]Club, error)
	// CommitMembers overwrites both membership arrays (and updatedAt)
	// as a single batched write against the club document.
	CommitMembers(ctx context.Context, clubID string, pending []PendingMember, members []Member) error
	UpdateFields(ctx context.Context, clubID string, updates map[string]interface{}) error
}

type FirestoreStore struct {
	fs *firestore.Client
}

func NewFirestoreStore(fs *firestore.Client) *FirestoreStore {
	return &FirestoreStore{fs: fs}
}

func (s *FirestoreStore) col() *firestore.CollectionRef {
	return s.fs.Collection(Collection)
}

func (s *FirestoreStore) Create(ctx context.Context, c Club) (*Club, error) {
	ref := s.col().NewDoc()
	c.ID = ref.ID
	if _, err := ref.Create(ctx, c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *FirestoreStore) Get(ctx context.Context, clubID string) (*Club, error) {
	doc, err := s.col().Doc(clubID).Get(ctx)
	if err != nil {
		return nil, err
	}
	var c Club
	if err := doc.DataTo(&c); err != nil {
		return nil, err
	}
	if c.ID == "" {
		c.ID = clubID
	}
	return &c, nil
}

func (s *FirestoreStore) Search(ctx context.Context, q string, limit int) ([]Club, error) {
	q = strings.TrimSpace(strings.ToLower(q))

	// if q empty, return recent clubs
	var it *firestore.DocumentIterator
	if q == "" {
		it = s.col().OrderBy("createdAt", firestore.Desc).Limit(limit).Documents(ctx)
	} else {
		// prefix search on nameLower (may require a composite index)
		hi := q + "\uf8ff"
		it = s.col().Where("nameLower", ">=", q).
			Where("nameLower", "<", hi).
			OrderBy("nameLower", firestore.Asc).
			Limit(limit).
			Documents(ctx)
	}

	out := []Club{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var c Club
		if err := doc.DataTo(&c); err != nil {
			return nil, err
		}
		if c.ID == "" {
			c.ID = doc.Ref.ID
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *FirestoreStore) CommitMembers(ctx context.Context, clubID string, pending []PendingMember, members []Member) error {
	batch := s.fs.Batch()
	batch.Update(s.col().Doc(clubID), []firestore.Update{
		{Path: "pendingMembers", Value: pending},
		{Path: "members", Value: members},
		{Path: "updatedAt", Value: time.Now().UTC()},
	})
	_, err := batch.Commit(ctx)
	return err
}

func (s *FirestoreStore) UpdateFields(ctx context.Context, clubID string, updates map[string]interface{}) error {
	updates["updatedAt"] = time.Now().UTC()
	_, err := s.col().Doc(clubID).Set(ctx, updates, firestore.MergeAll)
	return err
}
