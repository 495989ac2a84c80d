package handlers

import (
	"kirana/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// OrderHandler handles checkout and order listings.
type OrderHandler struct {
	settlement *services.SettlementService
	orders     *services.OrderService
	log        zerolog.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(settlement *services.SettlementService, orders *services.OrderService, log zerolog.Logger) *OrderHandler {
	return &OrderHandler{settlement: settlement, orders: orders, log: log}
}

// RegisterRoutes registers the order routes behind auth.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Post("/orders", auth, h.HandleSettle)
	router.Get("/orders", auth, h.HandleHistory)
	router.Get("/shop/orders", auth, h.HandleReceived)
}

// HandleSettle places a prepaid or khata order for the customer's cart.
func (h *OrderHandler) HandleSettle(c *fiber.Ctx) error {
	var req services.SettleInput
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	result, err := h.settlement.Settle(c.UserContext(), session(c), req)
	if err != nil {
		return respondError(c, h.log, err)
	}

	result.User = publicUser(result.User)
	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleHistory lists the customer's own orders, newest first.
func (h *OrderHandler) HandleHistory(c *fiber.Ctx) error {
	orders, err := h.orders.History(c.UserContext(), session(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(orders)
}

// HandleReceived lists orders that include the shopkeeper's products, newest first.
func (h *OrderHandler) HandleReceived(c *fiber.Ctx) error {
	orders, err := h.orders.Received(c.UserContext(), session(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(orders)
}
