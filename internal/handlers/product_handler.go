package handlers

import (
	"strconv"
	"strings"

	"flowershop/internal/apperrors"
	"flowershop/internal/middleware"
	"flowershop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Default page sizes of the listing endpoints.
const (
	DefaultListLimit   = 20
	DefaultFilterLimit = 15
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	products *services.ProductService
	imports  *services.ImportService
	validate *validator.Validate
	log      *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(products *services.ProductService, imports *services.ImportService, log *zap.Logger) *ProductHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductHandler{
		products: products,
		imports:  imports,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the product routes. admin guards the import.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, admin fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", middleware.Paginate(DefaultListLimit), h.HandleList)
	productRoutes.Get("/category", middleware.Paginate(DefaultFilterLimit), h.HandleCategory)
	productRoutes.Get("/filter", middleware.Paginate(DefaultFilterLimit), h.HandleFilter)
	productRoutes.Get("/home", h.HandleHome)
	productRoutes.Get("/filters", h.HandleFacetLists)
	productRoutes.Get("/filter-options", h.HandleFilterOptions)
	productRoutes.Post("/import", admin, h.HandleImport)
	// must stay last so it does not shadow the static paths
	productRoutes.Get("/:id", h.HandleGetProductByID)
}

// HandleList lists products filtered by facet ids.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	q, err := filterQuery(c, DefaultListLimit)
	if err != nil {
		return err
	}
	if q.CategoryID, err = uintParam(c, "category_id"); err != nil {
		return err
	}
	if q.OccasionID, err = uintParam(c, "occasion_id"); err != nil {
		return err
	}
	for param, dest := range map[string]*[]uint{"style_id": &q.StyleIDs, "color_id": &q.ColorIDs} {
		ids, err := idsParam(c, param)
		if err != nil {
			return err
		}
		*dest = append(*dest, ids...)
	}
	if err := h.validate.Struct(q); err != nil {
		return validationError(c, err)
	}

	page, err := h.products.List(c.UserContext(), q)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(fiber.Map{
		"products":   page.Products,
		"total":      page.Total,
		"page":       page.Page,
		"totalPages": page.TotalPages,
	})
}

// HandleCategory lists the products of the category named by the type slug.
func (h *ProductHandler) HandleCategory(c *fiber.Ctx) error {
	slug := strings.TrimSpace(c.Query("type"))
	if slug == "" {
		return apperrors.BadRequest("Query parameter 'type' is required", nil)
	}
	q, err := filterQuery(c, DefaultFilterLimit)
	if err != nil {
		return err
	}
	if err := h.validate.Struct(q); err != nil {
		return validationError(c, err)
	}

	page, err := h.products.ListByCategory(c.UserContext(), slug, q)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(fiber.Map{
		"products":   page.Products,
		"total":      page.Total,
		"page":       page.Page,
		"totalPages": page.TotalPages,
	})
}

// HandleFilter lists products matching the filter bar.
func (h *ProductHandler) HandleFilter(c *fiber.Ctx) error {
	q, err := filterQuery(c, DefaultFilterLimit)
	if err != nil {
		return err
	}
	if q.CategoryID, err = uintParam(c, "category"); err != nil {
		return err
	}
	if err := h.validate.Struct(q); err != nil {
		return validationError(c, err)
	}

	page, err := h.products.Filter(c.UserContext(), q)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(fiber.Map{
		"products": page.Products,
		"pagination": fiber.Map{
			"page":       page.Page,
			"limit":      page.Limit,
			"total":      page.Total,
			"totalPages": page.TotalPages,
		},
	})
}

// HandleHome returns the home feed keyed by category slug.
func (h *ProductHandler) HandleHome(c *fiber.Ctx) error {
	minPrice, err := floatParam(c, "minPrice")
	if err != nil {
		return err
	}
	maxPrice, err := floatParam(c, "maxPrice")
	if err != nil {
		return err
	}

	sections, err := h.products.Home(c.UserContext(), strings.TrimSpace(c.Query("name")), minPrice, maxPrice)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(sections)
}

// HandleFacetLists returns every facet table.
func (h *ProductHandler) HandleFacetLists(c *fiber.Ctx) error {
	lists, err := h.products.FacetLists(c.UserContext())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(lists)
}

// HandleFilterOptions returns the colors, styles and price range in use,
// scoped to the category named by type when it matches one.
func (h *ProductHandler) HandleFilterOptions(c *fiber.Ctx) error {
	options, err := h.products.FilterOptions(c.UserContext(), strings.TrimSpace(c.Query("type")))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(options)
}

// HandleGetProductByID returns one product with its facet names and tags.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return apperrors.BadRequest("Invalid product ID", err)
	}

	product, err := h.products.GetByID(c.UserContext(), uint(id))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(product)
}

// HandleImport imports the multipart field "file". The optional form field
// autoCreateTags overrides the configured tag policy for this run.
func (h *ProductHandler) HandleImport(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.BadRequest("No file uploaded", nil)
	}

	opts := h.imports.DefaultOptions()
	if raw := c.FormValue("autoCreateTags"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return invalidParam("autoCreateTags", err)
		}
		opts.AutoCreateTags = v
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.Internal("Could not read uploaded file", err)
	}
	defer file.Close()

	result, err := h.imports.Import(c.UserContext(), fileHeader.Filename, file, opts)
	if err != nil {
		return serviceError(err)
	}

	h.log.Info("products imported",
		zap.String("file", fileHeader.Filename),
		zap.Int("created", result.CreatedCount),
		zap.Int("warnings", len(result.Warnings)),
		zap.Any("user_id", c.Locals(middleware.UserIDKey)))
	return c.JSON(result)
}
