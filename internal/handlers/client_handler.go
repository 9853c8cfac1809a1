package handlers

import (
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/dto"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/repository"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ClientHandler struct {
	clientService *services.ClientService
}

func NewClientHandler(clientService *services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

func (h *ClientHandler) List(c *fiber.Ctx) error {
	s, err := session(c)
	if err != nil {
		return respondError(c, "list_clients", "", err)
	}
	clients, err := h.clientService.ListClients(c.UserContext(), s.UserID, listOptions(c)...)
	if err != nil {
		return respondError(c, "list_clients", "", err)
	}
	return c.JSON(clients)
}

func (h *ClientHandler) Get(c *fiber.Ctx) error {
	s, err := session(c)
	if err != nil {
		return respondError(c, "get_client", "", err)
	}
	id := c.Params("id")
	client, err := h.clientService.GetClient(c.UserContext(), s.UserID, id)
	if err != nil {
		return respondError(c, "get_client", id, err)
	}
	return c.JSON(client)
}

func (h *ClientHandler) Search(c *fiber.Ctx) error {
	s, err := session(c)
	if err != nil {
		return respondError(c, "search_clients", "", err)
	}
	criteria := repository.ClientSearch{
		Name:          c.Query("name"),
		Email:         c.Query("email"),
		ModelInterest: c.Query("model_interest"),
	}
	if criteria.MinBudget, err = queryInt64(c, "min_budget"); err != nil {
		return respondError(c, "search_clients", "", err)
	}
	if criteria.MaxBudget, err = queryInt64(c, "max_budget"); err != nil {
		return respondError(c, "search_clients", "", err)
	}
	if criteria.HasReminder, err = queryBool(c, "has_reminder"); err != nil {
		return respondError(c, "search_clients", "", err)
	}

	clients, err := h.clientService.SearchClients(c.UserContext(), s.UserID, criteria)
	if err != nil {
		return respondError(c, "search_clients", "", err)
	}
	return c.JSON(clients)
}

func (h *ClientHandler) Create(c *fiber.Ctx) error {
	s, err := session(c)
	if err != nil {
		return respondError(c, "create_client", "", err)
	}
	var req dto.ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	client, err := h.clientService.CreateClient(c.UserContext(), s, &req)
	if err != nil {
		return respondError(c, "create_client", "", err)
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

func (h *ClientHandler) Update(c *fiber.Ctx) error {
	s, err := session(c)
	if err != nil {
		return respondError(c, "update_client", "", err)
	}
	id := c.Params("id")
	var req dto.ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	client, err := h.clientService.UpdateClient(c.UserContext(), s.UserID, id, &req)
	if err != nil {
		return respondError(c, "update_client", id, err)
	}
	return c.JSON(client)
}

func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	s, err := session(c)
	if err != nil {
		return respondError(c, "delete_client", "", err)
	}
	id := c.Params("id")
	if err := h.clientService.DeleteClient(c.UserContext(), s.UserID, id); err != nil {
		return respondError(c, "delete_client", id, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Client deleted"})
}

func (h *ClientHandler) SetReminder(c *fiber.Ctx) error {
	s, err := session(c)
	if err != nil {
		return respondError(c, "set_reminder", "", err)
	}
	id := c.Params("id")
	var req dto.ReminderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	client, err := h.clientService.SetReminder(c.UserContext(), s.UserID, id, &req)
	if err != nil {
		return respondError(c, "set_reminder", id, err)
	}
	return c.JSON(client)
}

func (h *ClientHandler) ClearReminder(c *fiber.Ctx) error {
	s, err := session(c)
	if err != nil {
		return respondError(c, "clear_reminder", "", err)
	}
	id := c.Params("id")
	client, err := h.clientService.ClearReminder(c.UserContext(), s.UserID, id)
	if err != nil {
		return respondError(c, "clear_reminder", id, err)
	}
	return c.JSON(client)
}
