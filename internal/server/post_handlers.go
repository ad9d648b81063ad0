package server

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// postForm is the raw create/edit form payload.
type postForm struct {
	Text    string
	GroupID *uint
	Image   string
	// groupRaw is kept verbatim for redisplay.
	groupRaw string
}

// parsePostForm binds the form fields. A non-numeric group value is left nil
// here; the service rejects unknown groups, and an unparseable id is just as
// unknown, so it is reported the same way.
func parsePostForm(c *fiber.Ctx) (postForm, map[string]string) {
	form := postForm{
		Text:     c.FormValue("text"),
		Image:    strings.TrimSpace(c.FormValue("image")),
		groupRaw: strings.TrimSpace(c.FormValue("group")),
	}

	fields := map[string]string{}
	if form.groupRaw != "" {
		id, err := strconv.ParseUint(form.groupRaw, 10, 32)
		if err != nil || id == 0 {
			fields["group"] = "Unknown group"
		} else {
			gid := uint(id)
			form.GroupID = &gid
		}
	}
	return form, fields
}

func (f postForm) context(fields map[string]string) fiber.Map {
	return fiber.Map{
		"text":   f.Text,
		"group":  f.groupRaw,
		"image":  f.Image,
		"errors": fields,
	}
}

// PostCreateForm handles GET /create, the empty create-post form.
func (s *Server) PostCreateForm(c *fiber.Ctx) error {
	groups, err := s.groupRepo.List(c.Context())
	if err != nil {
		return s.failRequest(c, err)
	}

	return s.renderer.Render(c, "posts/create_post", fiber.Map{
		"form":   postForm{}.context(nil),
		"groups": groups,
	})
}

// PostCreate handles POST /create. A valid submission persists a new post
// owned by the caller and redirects to the caller's profile; a rejected one
// redisplays the form with field errors and writes nothing.
func (s *Server) PostCreate(c *fiber.Ctx) error {
	form, fields := parsePostForm(c)
	if len(fields) == 0 {
		_, err := s.posts.Create(c.Context(), service.CreatePostInput{
			UserID:  callerID(c),
			Text:    form.Text,
			GroupID: form.GroupID,
			Image:   form.Image,
		})
		if err == nil {
			return c.Redirect("/profile/" + callerUsername(c))
		}
		var ok bool
		if fields, ok = validationFields(err); !ok {
			return s.failRequest(c, err)
		}
	}

	return s.renderer.Render(c, "posts/create_post", fiber.Map{
		"form": form.context(fields),
	})
}

// PostEditForm handles GET /posts/:id/edit. Non-authors are sent to the
// detail page; the author gets the form prefilled with current values.
func (s *Server) PostEditForm(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		return s.failRequest(c, err)
	}

	if post.UserID != callerID(c) {
		return c.Redirect(fmt.Sprintf("/posts/%d", post.ID))
	}

	groups, err := s.groupRepo.List(c.Context())
	if err != nil {
		return s.failRequest(c, err)
	}

	form := postForm{Text: post.Text, GroupID: post.GroupID, Image: post.Image}
	if post.GroupID != nil {
		form.groupRaw = strconv.FormatUint(uint64(*post.GroupID), 10)
	}

	return s.renderer.Render(c, "posts/create_post", fiber.Map{
		"form":    form.context(nil),
		"groups":  groups,
		"is_edit": true,
		"post":    post,
	})
}

// PostEdit handles POST /posts/:id/edit. Only the author may write; everyone
// else is redirected to the detail page without mutation. A successful edit
// redirects back to the edit page itself, a deliberate product choice.
func (s *Server) PostEdit(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	// Resolve and authorize before looking at the payload: an unknown post is
	// a 404 and a non-author is a redirect no matter what was submitted.
	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		return s.failRequest(c, err)
	}
	if post.UserID != callerID(c) {
		return c.Redirect(fmt.Sprintf("/posts/%d", id))
	}

	form, fields := parsePostForm(c)
	if len(fields) == 0 {
		_, err := s.posts.Edit(c.Context(), service.EditPostInput{
			UserID:  callerID(c),
			PostID:  id,
			Text:    form.Text,
			GroupID: form.GroupID,
			Image:   form.Image,
		})
		if err == nil {
			return c.Redirect(fmt.Sprintf("/posts/%d/edit", id))
		}
		if errors.Is(err, service.ErrNotOwner) {
			return c.Redirect(fmt.Sprintf("/posts/%d", id))
		}
		var ok bool
		if fields, ok = validationFields(err); !ok {
			return s.failRequest(c, err)
		}
	}

	return s.renderer.Render(c, "posts/create_post", fiber.Map{
		"form":    form.context(fields),
		"is_edit": true,
	})
}
