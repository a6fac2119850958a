package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/dealsbackend/services"
)

// POST /likes/:dealId/like
func ToggleLike(likes *services.LikeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentIdentity(c)
		if !ok {
			return
		}
		dealID, ok := pathID(c, "dealId")
		if !ok {
			return
		}
		state, err := likes.Toggle(c.Request.Context(), user.ID, dealID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, state)
	}
}

// GET /likes/has-liked/:dealId
func HasLiked(likes *services.LikeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentIdentity(c)
		if !ok {
			return
		}
		dealID, ok := pathID(c, "dealId")
		if !ok {
			return
		}
		liked, err := likes.HasLiked(c.Request.Context(), user.ID, dealID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"liked": liked})
	}
}

// GET /likes/count/:dealId
func CountLikes(likes *services.LikeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		dealID, ok := pathID(c, "dealId")
		if !ok {
			return
		}
		count, err := likes.Count(c.Request.Context(), dealID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})
	}
}
