package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"flowershop/internal/apperrors"
	"flowershop/internal/middleware"
	"flowershop/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

func invalidParam(name string, err error) error {
	return apperrors.BadRequest(fmt.Sprintf("Invalid %s parameter", name), err)
}

// floatParam returns nil when the parameter is absent.
func floatParam(c *fiber.Ctx, name string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, invalidParam(name, err)
	}
	return &v, nil
}

// uintParam returns nil when the parameter is absent.
func uintParam(c *fiber.Ctx, name string) (*uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, invalidParam(name, err)
	}
	id := uint(v)
	return &id, nil
}

// idsParam collects ids from repeated parameters (color=1&color=2), the
// bracket form (color[]=1) and comma lists (color=1,2).
func idsParam(c *fiber.Ctx, name string) ([]uint, error) {
	args := c.Context().QueryArgs()
	values := args.PeekMulti(name)
	values = append(values, args.PeekMulti(name+"[]")...)

	var ids []uint
	for _, value := range values {
		for _, part := range strings.Split(string(value), ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			v, err := strconv.ParseUint(part, 10, 32)
			if err != nil {
				return nil, invalidParam(name, err)
			}
			ids = append(ids, uint(v))
		}
	}
	return ids, nil
}

// filterQuery reads the parameters shared by every listing endpoint.
func filterQuery(c *fiber.Ctx, defaultLimit int) (models.FilterQuery, error) {
	p := middleware.GetPagination(c, defaultLimit)
	q := models.FilterQuery{
		Name:  strings.TrimSpace(c.Query("name")),
		Page:  p.Page,
		Limit: p.Limit,
	}

	var err error
	if q.MinPrice, err = floatParam(c, "minPrice"); err != nil {
		return q, err
	}
	if q.MaxPrice, err = floatParam(c, "maxPrice"); err != nil {
		return q, err
	}
	if q.ColorIDs, err = idsParam(c, "color"); err != nil {
		return q, err
	}
	if q.StyleIDs, err = idsParam(c, "style"); err != nil {
		return q, err
	}
	return q, nil
}

// validationError renders validator failures as a 400 keyed by field.
func validationError(c *fiber.Ctx, err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.BadRequest("Validation failed", err)
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
