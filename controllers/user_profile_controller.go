package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/dealsbackend/dto"
	"github.com/princinho/dealsbackend/models"
	"github.com/princinho/dealsbackend/services"
)

// GET /user-profile/me
func GetMyProfile(profiles *services.UserProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		me, ok := currentIdentity(c)
		if !ok {
			return
		}
		user, err := profiles.GetProfile(c.Request.Context(), me.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// GET /user-profile
func GetUsers(profiles *services.UserProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		me, ok := currentIdentity(c)
		if !ok {
			return
		}
		users, err := profiles.ListNonAdminUsers(c.Request.Context(), me)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// PUT /user-profile/:id/roles
func UpdateUserRoles(profiles *services.UserProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		me, ok := requireRole(c, models.RoleAdmin)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var body dto.UpdateUserRolesDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		user, err := profiles.UpdateUserRoles(c.Request.Context(), id, body.RoleIDs, me)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
