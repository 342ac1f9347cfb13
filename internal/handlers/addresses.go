package handlers

import (
	"strings"

	"github.com/1234-ad/addressbook-fullstack/internal/middleware"
	"github.com/1234-ad/addressbook-fullstack/internal/services"
	"github.com/1234-ad/addressbook-fullstack/internal/validation"
	"github.com/1234-ad/addressbook-fullstack/pkg/logger"
	"github.com/1234-ad/addressbook-fullstack/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type AddressesHandler struct {
	Directory *services.DirectoryService
}

func NewAddressesHandler(directory *services.DirectoryService) *AddressesHandler {
	return &AddressesHandler{Directory: directory}
}

type addressRequest struct {
	FullName      string `json:"full_name" validate:"required"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Nickname      string `json:"nickname"`
	Phone         string `json:"phone"`
	Email         string `json:"email" validate:"omitempty,email"`
	Company       string `json:"company"`
	JobTitle      string `json:"job_title"`
	Department    string `json:"department"`
	Street        string `json:"street"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zip_code"`
	Country       string `json:"country"`
	FacebookLink  string `json:"facebook_link"`
	InstagramLink string `json:"instagram_link"`
	LinkedinLink  string `json:"linkedin_link"`
	GroupIDs      []uint `json:"group_ids"`
}

func (r *addressRequest) normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
}

func (r addressRequest) input() services.AddressInput {
	return services.AddressInput{
		FullName:      r.FullName,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Nickname:      r.Nickname,
		Phone:         r.Phone,
		Email:         r.Email,
		Company:       r.Company,
		JobTitle:      r.JobTitle,
		Department:    r.Department,
		Street:        r.Street,
		City:          r.City,
		State:         r.State,
		ZipCode:       r.ZipCode,
		Country:       r.Country,
		FacebookLink:  r.FacebookLink,
		InstagramLink: r.InstagramLink,
		LinkedinLink:  r.LinkedinLink,
		GroupIDs:      r.GroupIDs,
	}
}

func (h *AddressesHandler) List(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	p := utils.ParsePagination(c)
	search := c.Query("search")

	entries, total, err := h.Directory.List(currentUser.ID, search, p)
	if err != nil {
		logger.ErrorWithUser(strconvID(currentUser.ID), "address_list_failed", err, nil)
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing addresses")
	}

	return utils.Paginated(c, entries, p, total)
}

func (h *AddressesHandler) Get(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	addressID, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid address id")
	}

	entry, err := h.Directory.Get(addressID, currentUser.ID)
	if err != nil {
		if err == services.ErrNotFound {
			return utils.Error(c, fiber.StatusNotFound, "address not found")
		}
		logger.ErrorWithUser(strconvID(currentUser.ID), "address_get_failed", err, nil)
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading address")
	}

	return utils.Success(c, fiber.StatusOK, entry)
}

func (h *AddressesHandler) Create(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req addressRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.normalize()
	if errs := validation.Struct(req); errs != nil {
		return utils.ValidationFailed(c, errs)
	}

	entry, assigned, err := h.Directory.Create(currentUser.ID, req.input())
	if err != nil {
		logger.ErrorWithUser(strconvID(currentUser.ID), "address_create_failed", err, nil)
		return utils.Error(c, fiber.StatusInternalServerError, "failed creating address")
	}

	logger.InfoWithUser(strconvID(currentUser.ID), "address_created", map[string]interface{}{
		"address_id":      entry.ID,
		"assigned_groups": assigned,
	})

	return utils.Success(c, fiber.StatusCreated, fiber.Map{
		"message":        "address created",
		"addressId":      entry.ID,
		"assignedGroups": assigned,
	})
}

func (h *AddressesHandler) Update(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	addressID, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid address id")
	}

	var req addressRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.normalize()
	if errs := validation.Struct(req); errs != nil {
		return utils.ValidationFailed(c, errs)
	}

	assigned, err := h.Directory.Update(addressID, currentUser.ID, req.input())
	if err != nil {
		if err == services.ErrNotFound {
			return utils.Error(c, fiber.StatusNotFound, "address not found")
		}
		logger.ErrorWithUser(strconvID(currentUser.ID), "address_update_failed", err, nil)
		return utils.Error(c, fiber.StatusInternalServerError, "failed updating address")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message":        "address updated",
		"assignedGroups": assigned,
	})
}

func (h *AddressesHandler) Delete(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	addressID, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid address id")
	}

	if err := h.Directory.Delete(addressID, currentUser.ID); err != nil {
		if err == services.ErrNotFound {
			return utils.Error(c, fiber.StatusNotFound, "address not found")
		}
		logger.ErrorWithUser(strconvID(currentUser.ID), "address_delete_failed", err, nil)
		return utils.Error(c, fiber.StatusInternalServerError, "failed deleting address")
	}

	logger.InfoWithUser(strconvID(currentUser.ID), "address_deleted", map[string]interface{}{
		"address_id": addressID,
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "address deleted"})
}
