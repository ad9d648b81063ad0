package server

import (
	"fmt"

	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AddComment handles POST /posts/:id/comment. Whatever happens to the text,
// the request resolves to the post's detail page: a valid comment is
// persisted first, a rejected one is simply dropped. Only an unknown post id
// is an error.
func (s *Server) AddComment(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	_, err = s.comments.Add(c.Context(), service.AddCommentInput{
		UserID: callerID(c),
		PostID: id,
		Text:   c.FormValue("text"),
	})
	if err != nil {
		if _, ok := validationFields(err); !ok {
			return s.failRequest(c, err)
		}
	}

	return c.Redirect(fmt.Sprintf("/posts/%d", id))
}
