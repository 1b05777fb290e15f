package userstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/sponsorlists/internal/app/system/inputval"
	"github.com/dalemusser/sponsorlists/internal/app/system/timeouts"
	"github.com/dalemusser/sponsorlists/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// CollectionName is the collection holding attendee records.
const CollectionName = "users"

// ErrQuery wraps every failure raised by the database while discovering
// sponsors or fetching their lists.
var ErrQuery = errors.New("users query failed")

// Store runs the read-only sponsor queries against the users collection.
type Store struct {
	c   *mongo.Collection
	log *zap.Logger
}

// New returns a Store bound to db's users collection.
func New(db *mongo.Database, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{c: db.Collection(CollectionName), log: logger}
}

// entryProjection limits list queries to the columns the reports need.
var entryProjection = bson.M{
	"email":      1,
	"first_name": 1,
	"last_name":  1,
	"_id":        0,
}

// sponsorKeysPipeline flattens the keys of day_of.event across all users,
// keeps the ones that look like an email, and returns them distinct and
// sorted ascending as {_id: <key>} documents. Users whose day_of.event is
// missing or not a document contribute no keys.
func sponsorKeysPipeline() mongo.Pipeline {
	events := "$" + models.EventsPath
	eventKeys := bson.M{"$cond": bson.A{
		isObject(events),
		bson.M{"$objectToArray": events},
		bson.A{},
	}}

	return mongo.Pipeline{
		{{Key: "$project", Value: bson.M{"event_keys": eventKeys}}},
		{{Key: "$unwind", Value: "$event_keys"}},
		{{Key: "$match", Value: bson.M{"event_keys.k": bson.M{"$regex": "@"}}}},
		{{Key: "$group", Value: bson.M{"_id": "$event_keys.k"}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
}

// DiscoverSponsors returns every sponsor identifier found as a key of
// day_of.event in any user, unique and sorted ascending. Keys that are not
// well-formed email addresses are dropped.
//
// An empty collection yields an empty, non-nil slice. Any database failure
// yields a nil slice and an error wrapping ErrQuery.
func (s *Store) DiscoverSponsors(ctx context.Context) ([]string, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Batch(), s.log, "discover sponsors")
	defer cancel()

	cur, err := s.c.Aggregate(ctx, sponsorKeysPipeline())
	if err != nil {
		return nil, fmt.Errorf("%w: aggregate sponsor keys: %v", ErrQuery, err)
	}
	defer cur.Close(ctx)

	var keys []string
	for cur.Next(ctx) {
		var row struct {
			Key string `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("%w: decode sponsor key: %v", ErrQuery, err)
		}
		keys = append(keys, row.Key)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate sponsor keys: %v", ErrQuery, err)
	}

	sponsors := FilterSponsorIDs(keys, s.log)

	s.log.Info("found sponsor emails", zap.Int("count", len(sponsors)))
	for _, sp := range sponsors {
		s.log.Info("sponsor", zap.String("email", sp))
	}
	return sponsors, nil
}

// FilterSponsorIDs keeps the keys that are valid email addresses, in their
// original order, dropping repeats. The result is never nil.
func FilterSponsorIDs(keys []string, logger *zap.Logger) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if !inputval.IsValidEmail(k) {
			if logger != nil {
				logger.Debug("skipping event key that is not a valid sponsor email", zap.String("key", k))
			}
			continue
		}
		out = append(out, k)
	}
	return out
}

// PriorityLists fetches the users on sponsor's list A and list B.
//
// The sponsor string is used verbatim inside the field path. Tiers with no
// users come back as empty, non-nil slices. Any database failure yields a
// zero PriorityLists and an error wrapping ErrQuery.
func (s *Store) PriorityLists(ctx context.Context, sponsor string) (models.PriorityLists, error) {
	listA, err := s.findTier(ctx, sponsor, models.ListAKey)
	if err != nil {
		return models.PriorityLists{}, fmt.Errorf("list A for %s: %w", sponsor, err)
	}
	listB, err := s.findTier(ctx, sponsor, models.ListBKey)
	if err != nil {
		return models.PriorityLists{}, fmt.Errorf("list B for %s: %w", sponsor, err)
	}

	s.log.Info("fetched sponsor lists",
		zap.String("sponsor", sponsor),
		zap.Int("list_a", len(listA)),
		zap.Int("list_b", len(listB)),
	)
	return models.PriorityLists{Sponsor: sponsor, ListA: listA, ListB: listB}, nil
}

// findTier returns every user carrying tierKey for sponsor, projected to
// name/email.
func (s *Store) findTier(ctx context.Context, sponsor, tierKey string) ([]models.PriorityEntry, error) {
	path := models.TierPath(sponsor, tierKey)

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Query(), s.log, "find "+path)
	defer cancel()

	cur, err := s.c.Find(ctx, tierFilter(sponsor, tierKey), options.Find().SetProjection(entryProjection))
	if err != nil {
		return nil, fmt.Errorf("%w: find %s: %v", ErrQuery, path, err)
	}
	defer cur.Close(ctx)

	out := make([]models.PriorityEntry, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrQuery, path, err)
	}
	return out, nil
}

// tierFilter matches users whose sponsor entry carries tierKey.
//
// Sponsor identifiers are emails and usually contain dots, so the entry can
// be stored either as a literal key ("a@x.com") or split into nested
// documents by the dotted path. The first clause covers the nested shape,
// the $getField clause the literal one. $cond keeps $getField away from
// non-document inputs, which it rejects.
func tierFilter(sponsor, tierKey string) bson.M {
	events := "$" + models.EventsPath
	entry := getField(events, sponsor)

	literal := bson.M{"$cond": bson.A{
		isObject(events),
		bson.M{"$cond": bson.A{
			isObject(entry),
			bson.M{"$ne": bson.A{bson.M{"$type": getField(entry, tierKey)}, "missing"}},
			false,
		}},
		false,
	}}

	return bson.M{"$or": bson.A{
		bson.M{models.TierPath(sponsor, tierKey): bson.M{"$exists": true}},
		bson.M{"$expr": literal},
	}}
}

func getField(input any, name string) bson.M {
	return bson.M{"$getField": bson.M{"field": bson.M{"$literal": name}, "input": input}}
}

func isObject(expr any) bson.M {
	return bson.M{"$eq": bson.A{bson.M{"$type": expr}, "object"}}
}
