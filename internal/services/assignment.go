package services

import (
	"github.com/1234-ad/addressbook-fullstack/internal/models"
	"gorm.io/gorm"
)

// reconcileAssignments replaces the full assignment set for an address with
// exactly the target group ids, attributed to the acting principal. It is a
// delete-then-insert, not a diff, so repeating the call with the same target
// set is a no-op in effect. Callers run it inside a transaction; a failure
// after the delete must roll the delete back too.
//
// Group ids are not checked for existence here. A caller-supplied unknown id
// produces a dangling assignment, matching the original behavior.
func reconcileAssignments(tx *gorm.DB, addressID uint, groupIDs []uint, actorID uint) (int, error) {
	if err := tx.Where("address_id = ?", addressID).Delete(&models.AddressGroup{}).Error; err != nil {
		return 0, err
	}

	unique := dedupeIDs(groupIDs)
	if len(unique) == 0 {
		return 0, nil
	}

	assignments := make([]models.AddressGroup, 0, len(unique))
	for _, groupID := range unique {
		assignments = append(assignments, models.AddressGroup{
			AddressID: addressID,
			GroupID:   groupID,
			AddedByID: actorID,
		})
	}

	if err := tx.Create(&assignments).Error; err != nil {
		return 0, err
	}

	return len(assignments), nil
}

// dedupeIDs collapses repeats, keeping first-appearance order. The join table
// carries a unique (address_id, group_id) index; collapsing here keeps a
// repeated id from surfacing as a storage error.
func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
