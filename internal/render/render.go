// Package render is the boundary to the presentation collaborator. Handlers
// hand over a page template identifier and a named context bundle; how that
// becomes markup is not this repository's concern.
package render

import "github.com/gofiber/fiber/v2"

// Renderer turns a template identifier and a context bundle into a response
// body. The HTML template pack implements this interface in deployments; the
// bundled ContextRenderer stands in everywhere else.
type Renderer interface {
	Render(c *fiber.Ctx, template string, data fiber.Map) error
}

// ContextRenderer emits the template identifier and context bundle verbatim.
// It keeps the full page contract observable (and testable) without a
// template pack.
type ContextRenderer struct{}

// Render writes the page context as JSON, preserving any status already set
// on the response.
func (ContextRenderer) Render(c *fiber.Ctx, template string, data fiber.Map) error {
	return c.JSON(fiber.Map{
		"template": template,
		"context":  data,
	})
}
