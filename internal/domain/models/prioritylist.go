// internal/domain/models/prioritylist.go
package models

// PriorityEntry is the name/email projection of a user on a sponsor list.
// Fields missing from the stored document decode as "".
type PriorityEntry struct {
	FirstName string `bson:"first_name" json:"first_name"`
	LastName  string `bson:"last_name" json:"last_name"`
	Email     string `bson:"email" json:"email"`
}

// PriorityLists is the pair of tiers fetched for one sponsor.
// ListA and ListB are never nil once returned by a store; an empty
// tier is an empty slice.
type PriorityLists struct {
	Sponsor string
	ListA   []PriorityEntry
	ListB   []PriorityEntry
}

// Empty reports whether neither tier has any entries.
func (p PriorityLists) Empty() bool {
	return len(p.ListA) == 0 && len(p.ListB) == 0
}
