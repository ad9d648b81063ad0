package server

import (
	"github.com/gofiber/fiber/v2"
)

// Index handles GET /, the paginated global feed.
func (s *Server) Index(c *fiber.Ctx) error {
	page, err := s.feeds.Global(c.Context(), parsePage(c))
	if err != nil {
		return s.failRequest(c, err)
	}

	return s.renderer.Render(c, "posts/index", fiber.Map{
		"page_obj": pageContext(page),
	})
}

// GroupPosts handles GET /group/:slug, the paginated feed of one group.
func (s *Server) GroupPosts(c *fiber.Ctx) error {
	feed, err := s.feeds.Group(c.Context(), c.Params("slug"), parsePage(c))
	if err != nil {
		return s.failRequest(c, err)
	}

	return s.renderer.Render(c, "posts/group_list", fiber.Map{
		"group":    feed.Group,
		"page_obj": pageContext(feed.Page),
	})
}

// Profile handles GET /profile/:username, an author's paginated feed.
func (s *Server) Profile(c *fiber.Ctx) error {
	feed, err := s.feeds.Profile(c.Context(), c.Params("username"), parsePage(c))
	if err != nil {
		return s.failRequest(c, err)
	}

	return s.renderer.Render(c, "posts/profile", fiber.Map{
		"author":     feed.Author,
		"post_count": feed.PostCount,
		"page_obj":   pageContext(feed.Page),
	})
}

// PostDetail handles GET /posts/:id, a single post with its comments and
// the comment form.
func (s *Server) PostDetail(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	detail, err := s.feeds.Post(c.Context(), id)
	if err != nil {
		return s.failRequest(c, err)
	}

	return s.renderer.Render(c, "posts/post_detail", fiber.Map{
		"post":     detail.Post,
		"comments": detail.Comments,
		"form":     fiber.Map{"text": ""},
	})
}
