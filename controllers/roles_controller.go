package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/dealsbackend/dto"
	"github.com/princinho/dealsbackend/models"
	"github.com/princinho/dealsbackend/services"
)

func GetRoles(roles *services.RoleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireRole(c, models.RoleAdmin); !ok {
			return
		}
		list, err := roles.ListRoles(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func GetRole(roles *services.RoleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireRole(c, models.RoleAdmin); !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		role, err := roles.GetRole(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, role)
	}
}

func CreateRole(roles *services.RoleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireRole(c, models.RoleAdmin); !ok {
			return
		}
		var body dto.CreateRoleDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		role, err := roles.CreateRole(c.Request.Context(), body.Name, body.Permissions)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, role)
	}
}

// POST /roles/add-permission
func AddPermissionToRole(roles *services.RoleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireRole(c, models.RoleAdmin); !ok {
			return
		}
		var body dto.AddPermissionDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		role, err := roles.AddPermissionToRole(c.Request.Context(), body.RoleID, body.PermissionName)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, role)
	}
}

// PUT /roles/:id/permissions
func ReplaceRolePermissions(roles *services.RoleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireRole(c, models.RoleAdmin); !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var body dto.ReplacePermissionsDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		role, err := roles.ReplaceRolePermissions(c.Request.Context(), id, body.PermissionIDs)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, role)
	}
}

// PUT /roles/:id
func RenameRole(roles *services.RoleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireRole(c, models.RoleAdmin); !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var body dto.RenameRoleDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		role, err := roles.RenameRole(c.Request.Context(), id, body.Name)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, role)
	}
}

func DeleteRole(roles *services.RoleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireRole(c, models.RoleAdmin); !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := roles.DeleteRole(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
