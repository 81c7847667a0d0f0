package handlers

import (
	"net/http"
	"updoot/internal/models"
	"updoot/internal/services"
	"updoot/internal/utils"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	votes *services.VoteService
	posts *services.PostService
}

func NewVoteHandler(votes *services.VoteService, posts *services.PostService) *VoteHandler {
	return &VoteHandler{votes: votes, posts: posts}
}

type voteRequest struct {
	Direction models.Direction `json:"direction"` // 1 or -1
}

// Vote casts the session user's updoot on a post. The author identity
// comes from the session only; a duplicate vote answers 200 with
// status "duplicate", not an error.
func (h *VoteHandler) Vote(c *gin.Context) {
	user := CurrentUser(c)
	postID := utils.StringToUint(c.Param("id"))

	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.votes.CastVote(c.Request.Context(), user.ID, postID, req.Direction)
	if err != nil {
		JSONServiceError(c, err)
		return
	}

	resp := gin.H{
		"status":    result.Status,
		"direction": result.Direction,
		"delta":     result.Delta,
	}
	// The committed score, read after the transaction. Best effort: a
	// failed read does not undo an accepted vote.
	if post, err := h.posts.Get(c.Request.Context(), postID); err == nil {
		resp["score"] = post.Score
	}
	c.JSON(http.StatusOK, resp)
}
