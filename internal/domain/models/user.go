// internal/domain/models/user.go
package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field paths inside a user document.
const (
	// EventsPath is the dotted path of the per-sponsor event map.
	EventsPath = "day_of.event"

	// ListAKey and ListBKey mark membership in a sponsor's priority tiers.
	// Only the presence of the key matters, never its value.
	ListAKey = "orgSponsorA"
	ListBKey = "orgSponsorB"
)

// User is an attendee record in the users collection.
//
// NOTE:
//   - Sponsor identifiers are not declared anywhere; they are the dynamic
//     keys of DayOf.Event and are discovered at query time.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	FirstName string             `bson:"first_name" json:"first_name"`
	LastName  string             `bson:"last_name" json:"last_name"`
	DayOf     DayOf              `bson:"day_of,omitempty" json:"day_of,omitempty"`
}

// DayOf holds the check-in data collected during the event.
type DayOf struct {
	Event map[string]SponsorStatus `bson:"event,omitempty" json:"event,omitempty"`
}

// SponsorStatus is the per-sponsor sub-document stored under
// day_of.event.<sponsor>.
type SponsorStatus struct {
	ListA bool `json:"list_a"`
	ListB bool `json:"list_b"`
}

// UnmarshalBSON records which tier keys are present in the sub-document.
func (s *SponsorStatus) UnmarshalBSON(data []byte) error {
	raw := bson.Raw(data)
	if err := raw.Validate(); err != nil {
		return err
	}
	_, errA := raw.LookupErr(ListAKey)
	_, errB := raw.LookupErr(ListBKey)
	s.ListA = errA == nil
	s.ListB = errB == nil
	return nil
}

// MarshalBSON writes a tier key for every tier the status is in.
func (s SponsorStatus) MarshalBSON() ([]byte, error) {
	doc := bson.D{}
	if s.ListA {
		doc = append(doc, bson.E{Key: ListAKey, Value: true})
	}
	if s.ListB {
		doc = append(doc, bson.E{Key: ListBKey, Value: true})
	}
	return bson.Marshal(doc)
}

// TierPath returns the dotted field path whose existence puts a user on the
// tier named by tierKey for sponsor. The sponsor is used verbatim.
func TierPath(sponsor, tierKey string) string {
	return EventsPath + "." + sponsor + "." + tierKey
}
