package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"pawclub/backend/internal/config"
	"pawclub/backend/internal/domain/affiliation"
)

// Repairs the denormalized state around clubEducators: every active
// affiliation must appear in club.educatorIds and educator.clubIds, and
// its invite must read "accepted". Dry-run by default; pass --apply to
// write the fixes.
func main() {
	apply := flag.Bool("apply", false, "write fixes instead of reporting them")
	flag.Parse()

	ctx := context.Background()
	cfg := config.Load()
	if cfg.ProjectID == "" {
		log.Println("missing FIREBASE_PROJECT_ID or GOOGLE_CLOUD_PROJECT")
		os.Exit(1)
	}

	fs, err := firestore.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		log.Printf("firestore init failed: %v", err)
		os.Exit(1)
	}
	defer fs.Close()

	scanned, fixes := 0, 0
	it := fs.Collection(affiliation.AffiliationsCollection).Documents(ctx)
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Printf("scan failed: %v", err)
			os.Exit(1)
		}

		var aff affiliation.Affiliation
		if err := doc.DataTo(&aff); err != nil {
			log.Printf("skip %s: %v", doc.Ref.ID, err)
			continue
		}
		scanned++
		if !aff.IsActive {
			continue
		}

		fixes += checkPair(ctx, fs, aff, *apply)
	}

	fixes += checkAcceptedInvites(ctx, fs, *apply)

	mode := "dry-run"
	if *apply {
		mode = "applied"
	}
	fmt.Printf("done: scanned=%d fixes=%d (%s)\n", scanned, fixes, mode)
}

// checkAcceptedInvites finds accepted invites whose affiliation doc was
// never written (the partial state the old sequential writes could leave).
func checkAcceptedInvites(ctx context.Context, fs *firestore.Client, apply bool) int {
	fixes := 0
	it := fs.Collection(affiliation.InvitesCollection).
		Where("status", "==", affiliation.StatusAccepted).
		Documents(ctx)
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Printf("invite scan failed: %v", err)
			os.Exit(1)
		}

		var inv affiliation.Invite
		if err := doc.DataTo(&inv); err != nil {
			log.Printf("skip invite %s: %v", doc.Ref.ID, err)
			continue
		}

		key := affiliation.DocKey(inv.ClubID, inv.EducatorID)
		_, err = fs.Collection(affiliation.AffiliationsCollection).Doc(key).Get(ctx)
		if err == nil {
			continue
		}
		fixes++
		log.Printf("%s: accepted invite has no affiliation doc", key)
		if apply {
			aff := affiliation.Affiliation{
				ClubID:       inv.ClubID,
				EducatorID:   inv.EducatorID,
				IsActive:     true,
				LessonsGiven: 0,
				DateJoined:   inv.UpdatedAt,
			}
			if _, err := fs.Collection(affiliation.AffiliationsCollection).Doc(key).Set(ctx, aff); err != nil {
				log.Printf("%s: fix failed: %v", key, err)
			}
		}
	}
	return fixes
}

func checkPair(ctx context.Context, fs *firestore.Client, aff affiliation.Affiliation, apply bool) int {
	fixes := 0
	key := affiliation.DocKey(aff.ClubID, aff.EducatorID)

	clubRef := fs.Collection(affiliation.ClubsCollection).Doc(aff.ClubID)
	if doc, err := clubRef.Get(ctx); err == nil {
		if !containsString(doc, "educatorIds", aff.EducatorID) {
			fixes++
			log.Printf("%s: club %s is missing educatorId %s", key, aff.ClubID, aff.EducatorID)
			if apply {
				_, err := clubRef.Update(ctx, []firestore.Update{
					{Path: "educatorIds", Value: firestore.ArrayUnion(aff.EducatorID)},
					{Path: "updatedAt", Value: time.Now().UTC()},
				})
				if err != nil {
					log.Printf("%s: fix failed: %v", key, err)
				}
			}
		}
	} else {
		log.Printf("%s: club %s not found", key, aff.ClubID)
	}

	eduRef := fs.Collection(affiliation.EducatorsCollection).Doc(aff.EducatorID)
	if doc, err := eduRef.Get(ctx); err == nil {
		if !containsString(doc, "clubIds", aff.ClubID) {
			fixes++
			log.Printf("%s: educator %s is missing clubId %s", key, aff.EducatorID, aff.ClubID)
			if apply {
				_, err := eduRef.Update(ctx, []firestore.Update{
					{Path: "clubIds", Value: firestore.ArrayUnion(aff.ClubID)},
					{Path: "updatedAt", Value: time.Now().UTC()},
				})
				if err != nil {
					log.Printf("%s: fix failed: %v", key, err)
				}
			}
		}
	} else {
		log.Printf("%s: educator %s not found", key, aff.EducatorID)
	}

	invRef := fs.Collection(affiliation.InvitesCollection).Doc(key)
	doc, err := invRef.Get(ctx)
	status := ""
	if err == nil {
		status, _ = doc.Data()["status"].(string)
	}
	if status != affiliation.StatusAccepted {
		fixes++
		log.Printf("%s: invite status is %q, want accepted", key, status)
		if apply {
			_, err := invRef.Set(ctx, map[string]interface{}{
				"clubId":     aff.ClubID,
				"educatorId": aff.EducatorID,
				"status":     affiliation.StatusAccepted,
				"updatedAt":  time.Now().UTC(),
			}, firestore.MergeAll)
			if err != nil {
				log.Printf("%s: fix failed: %v", key, err)
			}
		}
	}

	return fixes
}

func containsString(doc *firestore.DocumentSnapshot, field, want string) bool {
	arr, _ := doc.Data()[field].([]interface{})
	for _, v := range arr {
		if s, ok := v.(string); ok && s == want {
			return true
		}
	}
	return false
}
