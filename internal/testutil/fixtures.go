package testutil

import (
	"context"
	"testing"

	"github.com/dalemusser/sponsorlists/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// Tier selects which priority keys a fixture user carries for a sponsor.
type Tier int

const (
	// Seen records an event entry with neither tier key.
	Seen Tier = iota
	TierA
	TierB
	TierAB
)

// SponsorMark attaches a tier for one sponsor to a fixture user.
type SponsorMark struct {
	Sponsor string
	Tier    Tier
}

// CreateAttendee inserts a user with the given name and email and one
// day_of.event entry per mark. Blank names or email are left out of the
// document entirely rather than stored as "".
func (f *Fixtures) CreateAttendee(ctx context.Context, first, last, email string, marks ...SponsorMark) {
	f.t.Helper()

	doc := bson.D{}
	if first != "" {
		doc = append(doc, bson.E{Key: "first_name", Value: first})
	}
	if last != "" {
		doc = append(doc, bson.E{Key: "last_name", Value: last})
	}
	if email != "" {
		doc = append(doc, bson.E{Key: "email", Value: email})
	}

	if len(marks) > 0 {
		events := bson.D{}
		for _, m := range marks {
			events = append(events, bson.E{Key: m.Sponsor, Value: tierDoc(m.Tier)})
		}
		doc = append(doc, bson.E{Key: "day_of", Value: bson.D{{Key: "event", Value: events}}})
	}

	f.insert(ctx, doc)
}

// CreateUser inserts u through its model encoding and returns it with its
// generated ID.
func (f *Fixtures) CreateUser(ctx context.Context, u models.User) models.User {
	f.t.Helper()

	u.ID = primitive.NewObjectID()
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateRaw inserts doc as-is, for shapes CreateAttendee cannot express.
func (f *Fixtures) CreateRaw(ctx context.Context, doc bson.D) {
	f.t.Helper()
	f.insert(ctx, doc)
}

func (f *Fixtures) insert(ctx context.Context, doc bson.D) {
	f.t.Helper()
	if _, err := f.db.Collection("users").InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
}

func tierDoc(t Tier) bson.D {
	scanned := bson.E{Key: "scanned", Value: true}
	switch t {
	case TierA:
		return bson.D{scanned, {Key: "orgSponsorA", Value: true}}
	case TierB:
		return bson.D{scanned, {Key: "orgSponsorB", Value: true}}
	case TierAB:
		return bson.D{scanned, {Key: "orgSponsorA", Value: true}, {Key: "orgSponsorB", Value: true}}
	default:
		return bson.D{scanned}
	}
}
