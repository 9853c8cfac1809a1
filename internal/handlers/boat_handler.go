package handlers

import (
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/dto"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/repository"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/services"
	"github.com/gofiber/fiber/v2"
)

type BoatHandler struct {
	boatService *services.BoatService
}

func NewBoatHandler(boatService *services.BoatService) *BoatHandler {
	return &BoatHandler{boatService: boatService}
}

func (h *BoatHandler) List(c *fiber.Ctx) error {
	s, err := session(c)
	if err != nil {
		return respondError(c, "list_boats", "", err)
	}
	boats, err := h.boatService.ListBoats(c.UserContext(), s.UserID, listOptions(c)...)
	if err != nil {
		return respondError(c, "list_boats", "", err)
	}
	return c.JSON(boats)
}

func (h *BoatHandler) Get(c *fiber.Ctx) error {
	s, err := session(c)
	if err != nil {
		return respondError(c, "get_boat", "", err)
	}
	id := c.Params("id")
	boat, err := h.boatService.GetBoat(c.UserContext(), s.UserID, id)
	if err != nil {
		return respondError(c, "get_boat", id, err)
	}
	return c.JSON(boat)
}

func (h *BoatHandler) Search(c *fiber.Ctx) error {
	s, err := session(c)
	if err != nil {
		return respondError(c, "search_boats", "", err)
	}
	criteria := repository.BoatSearch{
		Brand:    c.Query("brand"),
		Model:    c.Query("model"),
		Location: c.Query("location"),
	}
	ints := []struct {
		key string
		dst **int
	}{
		{"min_year", &criteria.MinYear},
		{"max_year", &criteria.MaxYear},
		{"min_size", &criteria.MinSize},
		{"max_size", &criteria.MaxSize},
	}
	for _, q := range ints {
		if *q.dst, err = queryInt(c, q.key); err != nil {
			return respondError(c, "search_boats", "", err)
		}
	}
	if criteria.MinPrice, err = queryInt64(c, "min_price"); err != nil {
		return respondError(c, "search_boats", "", err)
	}
	if criteria.MaxPrice, err = queryInt64(c, "max_price"); err != nil {
		return respondError(c, "search_boats", "", err)
	}

	boats, err := h.boatService.SearchBoats(c.UserContext(), s.UserID, criteria)
	if err != nil {
		return respondError(c, "search_boats", "", err)
	}
	return c.JSON(boats)
}

func (h *BoatHandler) Create(c *fiber.Ctx) error {
	s, err := session(c)
	if err != nil {
		return respondError(c, "create_boat", "", err)
	}
	var req dto.BoatRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	boat, err := h.boatService.CreateBoat(c.UserContext(), s, &req)
	if err != nil {
		return respondError(c, "create_boat", "", err)
	}
	return c.Status(fiber.StatusCreated).JSON(boat)
}

func (h *BoatHandler) Update(c *fiber.Ctx) error {
	s, err := session(c)
	if err != nil {
		return respondError(c, "update_boat", "", err)
	}
	id := c.Params("id")
	var req dto.BoatRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	boat, err := h.boatService.UpdateBoat(c.UserContext(), s.UserID, id, &req)
	if err != nil {
		return respondError(c, "update_boat", id, err)
	}
	return c.JSON(boat)
}

func (h *BoatHandler) Delete(c *fiber.Ctx) error {
	s, err := session(c)
	if err != nil {
		return respondError(c, "delete_boat", "", err)
	}
	id := c.Params("id")
	if err := h.boatService.DeleteBoat(c.UserContext(), s.UserID, id); err != nil {
		return respondError(c, "delete_boat", id, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Boat deleted"})
}

func (h *BoatHandler) AddImages(c *fiber.Ctx) error {
	s, err := session(c)
	if err != nil {
		return respondError(c, "add_boat_images", "", err)
	}
	id := c.Params("id")
	var req dto.AttachImagesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	boat, err := h.boatService.AddImages(c.UserContext(), s.UserID, id, &req)
	if err != nil {
		return respondError(c, "add_boat_images", id, err)
	}
	return c.JSON(boat)
}
