package handlers

import (
	"kirana/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// AccountHandler serves the signed-in user's own record.
type AccountHandler struct {
	service *services.AccountService
	log     zerolog.Logger
}

func NewAccountHandler(service *services.AccountService, log zerolog.Logger) *AccountHandler {
	return &AccountHandler{service: service, log: log}
}

// RegisterRoutes registers the account routes behind auth.
func (h *AccountHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/me", auth, h.HandleMe)
	router.Put("/me/store-status", auth, h.HandleSetStoreStatus)
}

// HandleMe returns the current user, assigning the khata credit limit if it is due.
func (h *AccountHandler) HandleMe(c *fiber.Ctx) error {
	user, err := h.service.CurrentUser(c.UserContext(), session(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(publicUser(*user))
}

// HandleSetStoreStatus changes the shopkeeper's open/busy/closed flag.
func (h *AccountHandler) HandleSetStoreStatus(c *fiber.Ctx) error {
	var req services.StoreStatusInput
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	user, err := h.service.SetStoreStatus(c.UserContext(), session(c), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(publicUser(*user))
}
