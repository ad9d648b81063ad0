package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRequiresLogin(t *testing.T) {
	resp := doGet(t, "/create", "")
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login?next=/create", resp.Header.Get("Location"))

	resp = doPostForm(t, "/create", "", url.Values{"text": {"drive-by"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login?next=/create", resp.Header.Get("Location"))
}

func TestCreateFormListsGroups(t *testing.T) {
	user := createUser(t)
	createGroup(t)

	resp := doGet(t, "/create", sessionCookie(t, user))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	p := decodePage(t, resp)
	assert.Equal(t, "posts/create_post", p.Template)
	assert.Contains(t, p.Context, "groups")
	assert.Contains(t, p.Context, "form")
}

func TestCreatePost(t *testing.T) {
	user := createUser(t)
	group := createGroup(t)

	form := url.Values{
		"text":  {"a brand new post"},
		"group": {strconv.FormatUint(uint64(group.ID), 10)},
	}
	resp := doPostForm(t, "/create", sessionCookie(t, user), form)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/profile/"+user.Username, resp.Header.Get("Location"))

	var post models.Post
	require.NoError(t, testDB.Where("user_id = ?", user.ID).First(&post).Error)
	assert.Equal(t, "a brand new post", post.Text)
	require.NotNil(t, post.GroupID)
	assert.Equal(t, group.ID, *post.GroupID)
}

func TestCreatePostValidationRedisplaysForm(t *testing.T) {
	user := createUser(t)

	resp := doPostForm(t, "/create", sessionCookie(t, user), url.Values{"text": {"   "}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	p := decodePage(t, resp)
	assert.Equal(t, "posts/create_post", p.Template)

	form := p.Context["form"].(map[string]interface{})
	fields := form["errors"].(map[string]interface{})
	assert.Contains(t, fields, "text")

	// Nothing was written.
	var count int64
	require.NoError(t, testDB.Model(&models.Post{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestCreatePostUnknownGroupRedisplaysForm(t *testing.T) {
	user := createUser(t)

	for _, group := range []string{"999999", "not-a-number"} {
		resp := doPostForm(t, "/create", sessionCookie(t, user), url.Values{
			"text":  {"grouped post"},
			"group": {group},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode, "group %q", group)

		p := decodePage(t, resp)
		form := p.Context["form"].(map[string]interface{})
		fields := form["errors"].(map[string]interface{})
		assert.Contains(t, fields, "group")
	}
}

func TestEditFormPrefilled(t *testing.T) {
	user := createUser(t)
	group := createGroup(t)
	post := createPost(t, user, group, time.Now().UTC())

	resp := doGet(t, fmt.Sprintf("/posts/%d/edit", post.ID), sessionCookie(t, user))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	p := decodePage(t, resp)
	assert.Equal(t, "posts/create_post", p.Template)
	assert.Equal(t, true, p.Context["is_edit"])

	form := p.Context["form"].(map[string]interface{})
	assert.Equal(t, post.Text, form["text"])
	assert.Equal(t, strconv.FormatUint(uint64(group.ID), 10), form["group"])
}

func TestEditFormNonAuthorRedirectsToDetail(t *testing.T) {
	author := createUser(t)
	other := createUser(t)
	post := createPost(t, author, nil, time.Now().UTC())

	resp := doGet(t, fmt.Sprintf("/posts/%d/edit", post.ID), sessionCookie(t, other))
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/posts/%d", post.ID), resp.Header.Get("Location"))
}

func TestEditPostRedirectsBackToEditPage(t *testing.T) {
	user := createUser(t)
	post := createPost(t, user, nil, time.Now().UTC())

	resp := doPostForm(t, fmt.Sprintf("/posts/%d/edit", post.ID), sessionCookie(t, user),
		url.Values{"text": {"edited text"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/posts/%d/edit", post.ID), resp.Header.Get("Location"))

	var reloaded models.Post
	require.NoError(t, testDB.First(&reloaded, post.ID).Error)
	assert.Equal(t, "edited text", reloaded.Text)
	assert.Equal(t, user.ID, reloaded.UserID)
}

func TestEditPostNonAuthorRedirectsWithoutWriting(t *testing.T) {
	author := createUser(t)
	other := createUser(t)
	post := createPost(t, author, nil, time.Now().UTC())

	resp := doPostForm(t, fmt.Sprintf("/posts/%d/edit", post.ID), sessionCookie(t, other),
		url.Values{"text": {"hijacked"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/posts/%d", post.ID), resp.Header.Get("Location"))

	var reloaded models.Post
	require.NoError(t, testDB.First(&reloaded, post.ID).Error)
	assert.Equal(t, "test post", reloaded.Text)
}

func TestEditPostUnknownIDIs404(t *testing.T) {
	user := createUser(t)

	resp := doPostForm(t, "/posts/999999/edit", sessionCookie(t, user),
		url.Values{"text": {"whatever"}})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "404", decodePage(t, resp).Template)
}

func TestEditPostCanDetachGroup(t *testing.T) {
	user := createUser(t)
	group := createGroup(t)
	post := createPost(t, user, group, time.Now().UTC())

	resp := doPostForm(t, fmt.Sprintf("/posts/%d/edit", post.ID), sessionCookie(t, user),
		url.Values{"text": {"now ungrouped"}, "group": {""}})
	require.Equal(t, http.StatusFound, resp.StatusCode)

	var reloaded models.Post
	require.NoError(t, testDB.First(&reloaded, post.ID).Error)
	assert.Nil(t, reloaded.GroupID)
}
