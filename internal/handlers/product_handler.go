package handlers

import (
	"kirana/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
	log     zerolog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{service: service, log: log}
}

// RegisterRoutes registers the public catalog and the shopkeeper's product routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/products", h.HandleListProducts)

	router.Get("/shop/products", auth, h.HandleListShopProducts)
	router.Post("/shop/products", auth, h.HandleAddProduct)
}

// HandleListProducts lists every product, optionally filtered by ?category= and ?q=.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	listings, err := h.service.ListProducts(c.UserContext(), services.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("q"),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(listings)
}

// HandleListShopProducts lists the signed-in shopkeeper's products.
func (h *ProductHandler) HandleListShopProducts(c *fiber.Ctx) error {
	listings, err := h.service.ListShopProducts(c.UserContext(), session(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(listings)
}

// HandleAddProduct lists a new product for the signed-in shopkeeper.
func (h *ProductHandler) HandleAddProduct(c *fiber.Ctx) error {
	var req services.ProductInput
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	product, err := h.service.AddProduct(c.UserContext(), session(c), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product added!",
		"product": product,
	})
}
