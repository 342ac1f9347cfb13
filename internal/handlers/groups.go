package handlers

import (
	"github.com/1234-ad/addressbook-fullstack/internal/middleware"
	"github.com/1234-ad/addressbook-fullstack/internal/models"
	"github.com/1234-ad/addressbook-fullstack/internal/query"
	"github.com/1234-ad/addressbook-fullstack/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GroupsHandler is the read-only group surface for ordinary users, used by
// the address form's group picker. Group management lives on the admin
// routes.
type GroupsHandler struct {
	DB *gorm.DB
}

func NewGroupsHandler(db *gorm.DB) *GroupsHandler {
	return &GroupsHandler{DB: db}
}

func (h *GroupsHandler) List(c *fiber.Ctx) error {
	pred := query.Search(c.Query("search"), "groups.name", "groups.description")

	groups := []models.Group{}
	if err := query.Apply(h.DB.Model(&models.Group{}), pred).
		Order("groups.name ASC").
		Find(&groups).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing groups")
	}

	return utils.Success(c, fiber.StatusOK, groups)
}

func (h *GroupsHandler) Get(c *fiber.Ctx) error {
	groupID, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid group id")
	}

	var group models.Group
	if err := h.DB.First(&group, "id = ?", groupID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "group not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading group")
	}

	if err := h.DB.Model(&models.AddressGroup{}).
		Where("group_id = ?", groupID).
		Count(&group.MemberCount).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed counting members")
	}

	return utils.Success(c, fiber.StatusOK, group)
}

// Addresses lists the caller's own entries assigned to the group.
func (h *GroupsHandler) Addresses(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	groupID, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid group id")
	}

	addresses := []models.Address{}
	if err := h.DB.Model(&models.Address{}).
		Joins("JOIN address_groups ON address_groups.address_id = addresses.id").
		Where("address_groups.group_id = ? AND addresses.owner_id = ?", groupID, currentUser.ID).
		Order("addresses.full_name ASC").
		Find(&addresses).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing group addresses")
	}

	return utils.Success(c, fiber.StatusOK, addresses)
}
