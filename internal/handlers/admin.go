package handlers

import (
	"errors"
	"strings"

	"github.com/1234-ad/addressbook-fullstack/internal/middleware"
	"github.com/1234-ad/addressbook-fullstack/internal/models"
	"github.com/1234-ad/addressbook-fullstack/internal/services"
	"github.com/1234-ad/addressbook-fullstack/internal/validation"
	"github.com/1234-ad/addressbook-fullstack/pkg/logger"
	"github.com/1234-ad/addressbook-fullstack/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AdminHandler struct {
	DB        *gorm.DB
	Directory *services.DirectoryService
}

func NewAdminHandler(db *gorm.DB, directory *services.DirectoryService) *AdminHandler {
	return &AdminHandler{DB: db, Directory: directory}
}

func (h *AdminHandler) ListGroups(c *fiber.Ctx) error {
	groups := []models.Group{}
	if err := h.DB.Order("created_at DESC").Find(&groups).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing groups")
	}

	if err := h.enrichGroups(groups); err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading group details")
	}

	return utils.Success(c, fiber.StatusOK, groups)
}

type groupRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

func (h *AdminHandler) CreateGroup(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req groupRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	if errs := validation.Struct(req); errs != nil {
		return utils.ValidationFailed(c, errs)
	}

	var existing models.Group
	if err := h.DB.First(&existing, "name = ?", req.Name).Error; err == nil {
		return utils.Error(c, fiber.StatusConflict, "group name already exists")
	} else if err != gorm.ErrRecordNotFound {
		return utils.Error(c, fiber.StatusInternalServerError, "failed checking group name")
	}

	group := models.Group{
		Name:        req.Name,
		Description: req.Description,
		CreatedByID: currentUser.ID,
	}

	if err := h.DB.Create(&group).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed creating group")
	}

	logger.InfoWithUser(strconvID(currentUser.ID), "group_created", map[string]interface{}{
		"group_id":   group.ID,
		"group_name": group.Name,
	})

	return utils.Success(c, fiber.StatusCreated, fiber.Map{
		"message": "group created",
		"groupId": group.ID,
	})
}

func (h *AdminHandler) UpdateGroup(c *fiber.Ctx) error {
	groupID, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid group id")
	}

	var req groupRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	if errs := validation.Struct(req); errs != nil {
		return utils.ValidationFailed(c, errs)
	}

	var group models.Group
	if err := h.DB.First(&group, "id = ?", groupID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "group not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading group")
	}

	var conflict models.Group
	if err := h.DB.First(&conflict, "name = ? AND id != ?", req.Name, groupID).Error; err == nil {
		return utils.Error(c, fiber.StatusConflict, "group name already exists")
	} else if err != gorm.ErrRecordNotFound {
		return utils.Error(c, fiber.StatusInternalServerError, "failed checking group name")
	}

	updates := map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
	}
	if err := h.DB.Model(&models.Group{}).Where("id = ?", groupID).Updates(updates).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed updating group")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "group updated"})
}

func (h *AdminHandler) DeleteGroup(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	groupID, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid group id")
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Group{}, "id = ?", groupID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return services.ErrNotFound
		}
		return tx.Where("group_id = ?", groupID).Delete(&models.AddressGroup{}).Error
	})
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "group not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed deleting group")
	}

	logger.InfoWithUser(strconvID(currentUser.ID), "group_deleted", map[string]interface{}{
		"group_id": groupID,
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "group deleted"})
}

// SearchAddresses searches across all owners. Unlike the user listing, a
// blank term is rejected instead of falling back to an unfiltered query.
func (h *AdminHandler) SearchAddresses(c *fiber.Ctx) error {
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		return utils.ValidationFailed(c, validation.Required("q"))
	}

	p := utils.ParsePagination(c)
	entries, total, err := h.Directory.AdminSearch(term, p)
	if err != nil {
		logger.Error("admin_search_failed", err, map[string]interface{}{"query": term})
		return utils.Error(c, fiber.StatusInternalServerError, "failed searching addresses")
	}

	return utils.Paginated(c, entries, p, total)
}

type assignGroupsRequest struct {
	GroupIDs []uint `json:"group_ids" validate:"required,min=1"`
}

func (h *AdminHandler) AssignGroups(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	addressID, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid address id")
	}

	var req assignGroupsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if errs := validation.Struct(req); errs != nil {
		return utils.ValidationFailed(c, errs)
	}

	assigned, err := h.Directory.AdminAssign(addressID, req.GroupIDs, currentUser.ID)
	if err != nil {
		if err == services.ErrNotFound {
			return utils.Error(c, fiber.StatusNotFound, "address not found")
		}
		logger.ErrorWithUser(strconvID(currentUser.ID), "admin_assign_failed", err, nil)
		return utils.Error(c, fiber.StatusInternalServerError, "failed assigning groups")
	}

	logger.InfoWithUser(strconvID(currentUser.ID), "groups_assigned", map[string]interface{}{
		"address_id":      addressID,
		"assigned_groups": assigned,
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message":        "address group assignments updated",
		"assignedGroups": assigned,
	})
}

func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	var totalUsers, totalAddresses, totalGroups, totalAssignments int64

	if err := h.DB.Model(&models.User{}).Where("role = ?", models.UserRoleUser).Count(&totalUsers).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading dashboard")
	}
	if err := h.DB.Model(&models.Address{}).Count(&totalAddresses).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading dashboard")
	}
	if err := h.DB.Model(&models.Group{}).Count(&totalGroups).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading dashboard")
	}
	if err := h.DB.Model(&models.AddressGroup{}).Count(&totalAssignments).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading dashboard")
	}

	recent := []models.Address{}
	if err := h.DB.Preload("Owner").Order("created_at DESC").Limit(5).Find(&recent).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading recent addresses")
	}

	recentActivity := make([]fiber.Map, 0, len(recent))
	for _, entry := range recent {
		recentActivity = append(recentActivity, fiber.Map{
			"full_name":  entry.FullName,
			"created_at": entry.CreatedAt,
			"username":   entry.Owner.Username,
		})
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"statistics": fiber.Map{
			"totalUsers":       totalUsers,
			"totalAddresses":   totalAddresses,
			"totalGroups":      totalGroups,
			"totalAssignments": totalAssignments,
		},
		"recentActivity": recentActivity,
	})
}

// enrichGroups fills the computed member counts and creator usernames with
// two batch queries instead of a row-per-group join.
func (h *AdminHandler) enrichGroups(groups []models.Group) error {
	if len(groups) == 0 {
		return nil
	}

	var counts []struct {
		GroupID uint
		Total   int64
	}
	if err := h.DB.Model(&models.AddressGroup{}).
		Select("group_id, COUNT(*) AS total").
		Group("group_id").
		Scan(&counts).Error; err != nil {
		return err
	}

	countByGroup := make(map[uint]int64, len(counts))
	for _, row := range counts {
		countByGroup[row.GroupID] = row.Total
	}

	creatorIDs := make([]uint, 0, len(groups))
	seen := make(map[uint]struct{}, len(groups))
	for _, group := range groups {
		if _, ok := seen[group.CreatedByID]; ok {
			continue
		}
		seen[group.CreatedByID] = struct{}{}
		creatorIDs = append(creatorIDs, group.CreatedByID)
	}

	var creators []models.User
	if err := h.DB.Find(&creators, "id IN ?", creatorIDs).Error; err != nil {
		return err
	}

	usernames := make(map[uint]string, len(creators))
	for _, creator := range creators {
		usernames[creator.ID] = creator.Username
	}

	for i := range groups {
		groups[i].MemberCount = countByGroup[groups[i].ID]
		groups[i].CreatedByUsername = usernames[groups[i].CreatedByID]
	}

	return nil
}
