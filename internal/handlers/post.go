package handlers

import (
	"net/http"
	"strconv"
	"time"
	"updoot/internal/models"
	"updoot/internal/services"
	"updoot/internal/utils"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	posts  *services.PostService
	loader *services.Loader
}

func NewPostHandler(posts *services.PostService, loader *services.Loader) *PostHandler {
	return &PostHandler{posts: posts, loader: loader}
}

// postJSON is the wire shape of a post. Snippet or HTML is filled
// depending on list vs detail; VoteStatus is 0 for anonymous callers.
type postJSON struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	TextSnippet string            `json:"text_snippet,omitempty"`
	TextHTML    string            `json:"text_html,omitempty"`
	Score       int               `json:"score"`
	Author      *authorJSON       `json:"author,omitempty"`
	VoteStatus  models.Direction  `json:"vote_status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type authorJSON struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func snippet(text string) string {
	if len(text) <= services.SnippetLength {
		return text
	}
	return text[:services.SnippetLength] + "..."
}

// List pages through posts, newest first. The cursor is the
// millisecond timestamp of the last post on the previous page.
func (h *PostHandler) List(c *gin.Context) {
	limit := utils.StringToInt(c.DefaultQuery("limit", "20"))

	var before time.Time
	if cursor := c.Query("cursor"); cursor != "" {
		ms, err := strconv.ParseInt(cursor, 10, 64)
		if err != nil {
			JSONError(c, http.StatusBadRequest, "invalid cursor")
			return
		}
		before = time.UnixMilli(ms)
	}

	page, err := h.posts.List(c.Request.Context(), limit, before)
	if err != nil {
		JSONServiceError(c, err)
		return
	}

	authors, err := h.loader.Authors(c.Request.Context(), page.Posts)
	if err != nil {
		JSONServiceError(c, err)
		return
	}

	voteStatus := map[uint]models.Direction{}
	if user := CurrentUser(c); user != nil {
		voteStatus, err = h.loader.VoteStatus(c.Request.Context(), user.ID, page.Posts)
		if err != nil {
			JSONServiceError(c, err)
			return
		}
	}

	items := make([]postJSON, len(page.Posts))
	for i, p := range page.Posts {
		items[i] = postJSON{
			ID:          p.ID,
			Title:       p.Title,
			TextSnippet: snippet(p.Text),
			Score:       p.Score,
			VoteStatus:  voteStatus[p.ID],
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		}
		if author, ok := authors[p.AuthorID]; ok {
			items[i].Author = &authorJSON{ID: author.ID, Username: author.Username}
		}
	}

	resp := gin.H{"posts": items, "all_fetched": page.AllFetched}
	if len(page.Posts) > 0 {
		resp["next_cursor"] = page.Posts[len(page.Posts)-1].CreatedAt.UnixMilli()
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PostHandler) Detail(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))

	post, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		JSONServiceError(c, err)
		return
	}

	item := postJSON{
		ID:        post.ID,
		Title:     post.Title,
		TextHTML:  utils.RenderMarkdown(post.Text),
		Score:     post.Score,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}

	single := []models.Post{*post}
	authors, err := h.loader.Authors(c.Request.Context(), single)
	if err != nil {
		JSONServiceError(c, err)
		return
	}
	if author, ok := authors[post.AuthorID]; ok {
		item.Author = &authorJSON{ID: author.ID, Username: author.Username}
	}

	if user := CurrentUser(c); user != nil {
		voteStatus, err := h.loader.VoteStatus(c.Request.Context(), user.ID, single)
		if err != nil {
			JSONServiceError(c, err)
			return
		}
		item.VoteStatus = voteStatus[post.ID]
	}

	c.JSON(http.StatusOK, gin.H{"post": item})
}

type postRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

func (h *PostHandler) Create(c *gin.Context) {
	user := CurrentUser(c)

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	post, fieldErrs, err := h.posts.Create(c.Request.Context(), user.ID, req.Title, req.Text)
	if err != nil {
		JSONServiceError(c, err)
		return
	}
	if len(fieldErrs) != 0 {
		JSONFieldErrors(c, fieldErrs)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

func (h *PostHandler) Update(c *gin.Context) {
	user := CurrentUser(c)
	id := utils.StringToUint(c.Param("id"))

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	post, fieldErrs, err := h.posts.Update(c.Request.Context(), user.ID, id, req.Title, req.Text)
	if err != nil {
		JSONServiceError(c, err)
		return
	}
	if len(fieldErrs) != 0 {
		JSONFieldErrors(c, fieldErrs)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (h *PostHandler) Delete(c *gin.Context) {
	user := CurrentUser(c)
	id := utils.StringToUint(c.Param("id"))

	if err := h.posts.Delete(c.Request.Context(), user.ID, id); err != nil {
		JSONServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
