package services

import (
	"errors"

	"github.com/1234-ad/addressbook-fullstack/internal/models"
	"github.com/1234-ad/addressbook-fullstack/internal/query"
	"github.com/1234-ad/addressbook-fullstack/pkg/utils"
	"gorm.io/gorm"
)

// ErrNotFound covers both a missing row and a row outside the caller's
// ownership scope; the two are deliberately indistinguishable.
var ErrNotFound = errors.New("record not found")

var (
	listSearchColumns  = []string{"addresses.full_name", "addresses.phone", "addresses.email"}
	adminSearchColumns = []string{"addresses.full_name", "addresses.first_name", "addresses.last_name", "addresses.phone"}
)

// DirectoryService owns the address listing, mutation and group-assignment
// flows. Every operation takes the acting principal explicitly.
type DirectoryService struct {
	DB *gorm.DB
}

func NewDirectoryService(db *gorm.DB) *DirectoryService {
	return &DirectoryService{DB: db}
}

// AddressInput carries the scalar fields plus the target group set for a
// create or update. An update always resets the assignments to GroupIDs,
// including clearing them when the set is empty.
type AddressInput struct {
	FullName      string
	FirstName     string
	LastName      string
	Nickname      string
	Phone         string
	Email         string
	Company       string
	JobTitle      string
	Department    string
	Street        string
	City          string
	State         string
	ZipCode       string
	Country       string
	FacebookLink  string
	InstagramLink string
	LinkedinLink  string
	GroupIDs      []uint
}

// scalarUpdates is a column map so zero-valued fields overwrite too.
func (in AddressInput) scalarUpdates() map[string]interface{} {
	return map[string]interface{}{
		"full_name":      in.FullName,
		"first_name":     in.FirstName,
		"last_name":      in.LastName,
		"nickname":       in.Nickname,
		"phone":          in.Phone,
		"email":          in.Email,
		"company":        in.Company,
		"job_title":      in.JobTitle,
		"department":     in.Department,
		"street":         in.Street,
		"city":           in.City,
		"state":          in.State,
		"zip_code":       in.ZipCode,
		"country":        in.Country,
		"facebook_link":  in.FacebookLink,
		"instagram_link": in.InstagramLink,
		"linkedin_link":  in.LinkedinLink,
	}
}

func (in AddressInput) model(ownerID uint) models.Address {
	return models.Address{
		OwnerID:       ownerID,
		FullName:      in.FullName,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Nickname:      in.Nickname,
		Phone:         in.Phone,
		Email:         in.Email,
		Company:       in.Company,
		JobTitle:      in.JobTitle,
		Department:    in.Department,
		Street:        in.Street,
		City:          in.City,
		State:         in.State,
		ZipCode:       in.ZipCode,
		Country:       in.Country,
		FacebookLink:  in.FacebookLink,
		InstagramLink: in.InstagramLink,
		LinkedinLink:  in.LinkedinLink,
	}
}

// List returns one page of the caller's entries, group lists aggregated,
// with the total count taken under the same predicate as the page query.
func (s *DirectoryService) List(ownerID uint, search string, p utils.PaginationParams) ([]models.Address, int64, error) {
	pred := query.And(
		query.Eq("addresses.owner_id", ownerID),
		query.Search(search, listSearchColumns...),
	)
	return s.page(pred, "addresses.created_at DESC, addresses.id DESC", p, false)
}

// AdminSearch lists entries across all owners. The caller must have rejected
// an empty term already; an empty predicate here would list everything.
func (s *DirectoryService) AdminSearch(term string, p utils.PaginationParams) ([]models.Address, int64, error) {
	pred := query.Search(term, adminSearchColumns...)
	return s.page(pred, "addresses.full_name ASC, addresses.id ASC", p, true)
}

func (s *DirectoryService) page(pred query.Fragment, order string, p utils.PaginationParams, includeOwner bool) ([]models.Address, int64, error) {
	var total int64
	if err := query.Apply(s.DB.Model(&models.Address{}), pred).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	entries := []models.Address{}
	pageQuery := query.Apply(s.DB.Model(&models.Address{}), pred).Order(order)
	if err := utils.ApplyPagination(pageQuery, p).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	if err := s.loadGroups(entries); err != nil {
		return nil, 0, err
	}
	if includeOwner {
		if err := s.attachOwners(entries); err != nil {
			return nil, 0, err
		}
	}

	return entries, total, nil
}

// Get returns one aggregated entry scoped to its owner.
func (s *DirectoryService) Get(addressID, ownerID uint) (*models.Address, error) {
	var entry models.Address
	err := s.DB.First(&entry, "id = ? AND owner_id = ?", addressID, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	entries := []models.Address{entry}
	if err := s.loadGroups(entries); err != nil {
		return nil, err
	}
	return &entries[0], nil
}

// Create persists the scalar fields, then reconciles the assignment set in
// the same transaction. Returns the new entry and the assigned-group count.
func (s *DirectoryService) Create(ownerID uint, in AddressInput) (*models.Address, int, error) {
	entry := in.model(ownerID)

	var assigned int
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		n, err := reconcileAssignments(tx, entry.ID, in.GroupIDs, ownerID)
		assigned = n
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	return &entry, assigned, nil
}

// Update overwrites every scalar field and resets the assignment set,
// clearing all memberships when the input set is empty.
func (s *DirectoryService) Update(addressID, ownerID uint, in AddressInput) (int, error) {
	var existing models.Address
	err := s.DB.First(&existing, "id = ? AND owner_id = ?", addressID, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	var assigned int
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Address{}).
			Where("id = ? AND owner_id = ?", addressID, ownerID).
			Updates(in.scalarUpdates()).Error; err != nil {
			return err
		}
		n, err := reconcileAssignments(tx, addressID, in.GroupIDs, ownerID)
		assigned = n
		return err
	})
	if err != nil {
		return 0, err
	}

	return assigned, nil
}

// Delete removes the entry scoped to its owner; assignments cascade.
func (s *DirectoryService) Delete(addressID, ownerID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Address{}, "id = ? AND owner_id = ?", addressID, ownerID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("address_id = ?", addressID).Delete(&models.AddressGroup{}).Error
	})
}

// AdminAssign reconciles an arbitrary entry's assignment set with the admin
// as the acting principal. Existence is checked globally, not owner-scoped.
func (s *DirectoryService) AdminAssign(addressID uint, groupIDs []uint, adminID uint) (int, error) {
	var entry models.Address
	err := s.DB.First(&entry, "id = ?", addressID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	var assigned int
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		n, err := reconcileAssignments(tx, addressID, groupIDs, adminID)
		assigned = n
		return err
	})
	if err != nil {
		return 0, err
	}

	return assigned, nil
}

// loadGroups runs the left join for the given entries and folds the flat
// rows into each entry's group list. Entries with no assignments end up with
// an empty, non-nil list.
func (s *DirectoryService) loadGroups(entries []models.Address) error {
	if len(entries) == 0 {
		return nil
	}

	ids := make([]uint, len(entries))
	for i, entry := range entries {
		ids[i] = entry.ID
	}

	var rows []joinedGroupRow
	err := s.DB.Table("addresses").
		Select("addresses.id AS address_id, groups.id AS group_id, groups.name AS group_name").
		Joins("LEFT JOIN address_groups ON address_groups.address_id = addresses.id").
		Joins("LEFT JOIN groups ON groups.id = address_groups.group_id").
		Where("addresses.id IN ?", ids).
		Order("addresses.id, address_groups.id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	byAddress := aggregateGroups(rows)
	for i := range entries {
		groups, ok := byAddress[entries[i].ID]
		if !ok {
			groups = []models.GroupRef{}
		}
		entries[i].Groups = groups
	}

	return nil
}

func (s *DirectoryService) attachOwners(entries []models.Address) error {
	if len(entries) == 0 {
		return nil
	}

	ownerIDs := make([]uint, 0, len(entries))
	seen := make(map[uint]struct{}, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.OwnerID]; ok {
			continue
		}
		seen[entry.OwnerID] = struct{}{}
		ownerIDs = append(ownerIDs, entry.OwnerID)
	}

	var owners []models.User
	if err := s.DB.Find(&owners, "id IN ?", ownerIDs).Error; err != nil {
		return err
	}

	usernames := make(map[uint]string, len(owners))
	for _, owner := range owners {
		usernames[owner.ID] = owner.Username
	}

	for i := range entries {
		entries[i].OwnerUsername = usernames[entries[i].OwnerID]
	}

	return nil
}
