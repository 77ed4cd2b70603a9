package middleware

import (
	"math"
	"strconv"

	"flowershop/internal/apperrors"

	"github.com/gofiber/fiber/v2"
)

// PaginationKey is the fiber Locals key holding the parsed Pagination.
const PaginationKey = "pagination"

// MaxLimit is the largest page size a client may request.
const MaxLimit = 100

// Pagination is the validated page and limit of a request.
type Pagination struct {
	Page   int
	Limit  int
	Offset int
}

// Paginate rejects requests whose page is not an integer >= 1 or whose limit
// is not an integer in 1..MaxLimit, and pages whose offset would overflow
// int. Missing values take page 1 and defaultLimit.
func Paginate(defaultLimit int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, ok := intParam(c.Query("page"), 1)
		if !ok || page < 1 {
			return apperrors.BadRequest("Invalid page parameter", nil)
		}
		limit, ok := intParam(c.Query("limit"), defaultLimit)
		if !ok || limit < 1 || limit > MaxLimit {
			return apperrors.BadRequest("Invalid limit parameter", nil)
		}
		if page-1 > math.MaxInt/limit {
			return apperrors.BadRequest("Invalid page parameter", nil)
		}

		c.Locals(PaginationKey, Pagination{Page: page, Limit: limit, Offset: (page - 1) * limit})
		return c.Next()
	}
}

// GetPagination returns the values stored by Paginate, or page 1 with
// fallbackLimit when the middleware did not run.
func GetPagination(c *fiber.Ctx, fallbackLimit int) Pagination {
	if p, ok := c.Locals(PaginationKey).(Pagination); ok {
		return p
	}
	return Pagination{Page: 1, Limit: fallbackLimit}
}

func intParam(raw string, def int) (int, bool) {
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	return v, err == nil
}
