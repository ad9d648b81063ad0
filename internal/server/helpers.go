package server

import (
	"errors"

	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// the app ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parsePage extracts the 1-indexed page query parameter. Out-of-range values
// are clamped against the feed's page count by the service layer; anything
// unparseable falls back to the first page.
func parsePage(c *fiber.Ctx) int {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	return page
}

// parseID extracts the :id route parameter as a positive uint. On failure it
// commits the not-found page and returns errResponseWritten; callers should
// check: if err != nil { return nil }.
func (s *Server) parseID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = s.renderNotFound(c)
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// renderNotFound commits the 404 page.
func (s *Server) renderNotFound(c *fiber.Ctx) error {
	c.Status(fiber.StatusNotFound)
	return s.renderer.Render(c, "404", fiber.Map{
		"path": c.Path(),
	})
}

// failRequest maps a service failure onto the response: unknown entities get
// the 404 page, anything else the 500 page. Validation and ownership failures
// never reach here; the handlers deal with those inline.
func (s *Server) failRequest(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
		return s.renderNotFound(c)
	}
	c.Status(fiber.StatusInternalServerError)
	return s.renderer.Render(c, "500", fiber.Map{
		"error": "internal server error",
	})
}

// validationFields extracts per-field messages when err is a validation
// failure, for form redisplay.
func validationFields(err error) (map[string]string, bool) {
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Code == models.CodeValidation {
		fields := appErr.Fields
		if fields == nil {
			fields = map[string]string{"__all__": appErr.Message}
		}
		return fields, true
	}
	return nil, false
}

// pageContext flattens a feed page into the context bundle consumed by the
// list templates.
func pageContext(p *service.PostPage) fiber.Map {
	return fiber.Map{
		"posts":        p.Posts,
		"number":       p.Number,
		"total_pages":  p.TotalPages,
		"total_count":  p.TotalCount,
		"has_previous": p.HasPrevious(),
		"has_next":     p.HasNext(),
	}
}

// callerID returns the authenticated user's ID set by the guard.
func callerID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// callerUsername returns the authenticated user's username set by the guard.
func callerUsername(c *fiber.Ctx) string {
	name, _ := c.Locals("username").(string)
	return name
}
