package services

import "github.com/1234-ad/addressbook-fullstack/internal/models"

// joinedGroupRow is one flat row of the address -> assignment -> group left
// join. Group columns are nil when an address has no assignments.
type joinedGroupRow struct {
	AddressID uint    `gorm:"column:address_id"`
	GroupID   *uint   `gorm:"column:group_id"`
	GroupName *string `gorm:"column:group_name"`
}

// aggregateGroups folds flat join rows into one group list per address.
// Groups are unique by id in order of first appearance. Every address id seen
// in the rows gets an entry, so a nil-group row still yields an empty list
// rather than a phantom group.
func aggregateGroups(rows []joinedGroupRow) map[uint][]models.GroupRef {
	byAddress := make(map[uint][]models.GroupRef)
	seen := make(map[uint]map[uint]struct{})

	for _, row := range rows {
		if _, ok := byAddress[row.AddressID]; !ok {
			byAddress[row.AddressID] = []models.GroupRef{}
			seen[row.AddressID] = map[uint]struct{}{}
		}
		if row.GroupID == nil {
			continue
		}
		if _, dup := seen[row.AddressID][*row.GroupID]; dup {
			continue
		}
		seen[row.AddressID][*row.GroupID] = struct{}{}

		name := ""
		if row.GroupName != nil {
			name = *row.GroupName
		}
		byAddress[row.AddressID] = append(byAddress[row.AddressID], models.GroupRef{
			ID:   *row.GroupID,
			Name: name,
		})
	}

	return byAddress
}
