package educator

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

const Collection = "educators"

type Repo struct {
	fs *firestore.Client
}

func NewRepo(fs *firestore.Client) *Repo {
	return &Repo{fs: fs}
}

func (r *Repo) col() *firestore.CollectionRef {
	return r.fs.Collection(Collection)
}

func (r *Repo) Get(ctx context.Context, educatorID string) (*Educator, error) {
	doc, err := r.col().Doc(educatorID).Get(ctx)
	if err != nil {
		return nil, err
	}
	var e Educator
	if err := doc.DataTo(&e); err != nil {
		return nil, err
	}
	if e.ID == "" {
		e.ID = educatorID
	}
	return &e, nil
}

// Upsert writes the educator profile document keyed by the auth uid.
func (r *Repo) Upsert(ctx context.Context, uid string, in UpsertEducatorInput) (*Educator, error) {
	in.Trim()
	if in.DisplayName == "" {
		return nil, fmt.Errorf("displayName is required")
	}

	now := time.Now().UTC()
	data := map[string]any{
		"id":          uid,
		"displayName": in.DisplayName,
		"email":       in.Email,
		"bio":         in.Bio,
		"city":        in.City,
		"specialties": in.Specialties,
		"updatedAt":   now,
	}

	doc, err := r.col().Doc(uid).Get(ctx)
	if err != nil || !doc.Exists() {
		data["createdAt"] = now
		data["clubIds"] = []string{}
	}

	if _, err := r.col().Doc(uid).Set(ctx, data, firestore.MergeAll); err != nil {
		return nil, err
	}
	return r.Get(ctx, uid)
}

// ListByClub returns educators actively affiliated with a club.
func (r *Repo) ListByClub(ctx context.Context, clubID string, limit int) ([]Educator, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	it := r.col().Where("clubIds", "array-contains", clubID).Limit(limit).Documents(ctx)

	out := []Educator{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var e Educator
		if err := doc.DataTo(&e); err != nil {
			continue
		}
		if e.ID == "" {
			e.ID = doc.Ref.ID
		}
		out = append(out, e)
	}
	return out, nil
}
