package handlers

import (
	"kirana/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// CartHandler handles HTTP requests for the signed-in customer's cart.
type CartHandler struct {
	service *services.CartService
	log     zerolog.Logger
}

func NewCartHandler(service *services.CartService, log zerolog.Logger) *CartHandler {
	return &CartHandler{service: service, log: log}
}

// AddItemRequest adds one unit of a product.
type AddItemRequest struct {
	ProductID string `json:"product_id"`
}

// AdjustItemRequest changes a line's quantity by Delta.
type AdjustItemRequest struct {
	Delta int `json:"delta"`
}

// RegisterRoutes registers the cart routes behind auth.
func (h *CartHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/cart", auth, h.HandleSummary)
	router.Post("/cart/items", auth, h.HandleAddItem)
	router.Patch("/cart/items/:productId", auth, h.HandleAdjustItem)
}

// HandleSummary returns the checkout view; ?use_rewards=true previews the points discount.
func (h *CartHandler) HandleSummary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.UserContext(), session(c), c.QueryBool("use_rewards", false))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(summary)
}

// HandleAddItem adds one unit of product_id to the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	cart, err := h.service.AddToCart(c.UserContext(), session(c), req.ProductID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cart)
}

// HandleAdjustItem applies delta to the product's line.
func (h *CartHandler) HandleAdjustItem(c *fiber.Ctx) error {
	var req AdjustItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	cart, err := h.service.AdjustCartQuantity(c.UserContext(), session(c), c.Params("productId"), req.Delta)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(cart)
}
