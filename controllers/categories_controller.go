package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/dealsbackend/dto"
	"github.com/princinho/dealsbackend/models"
	"github.com/princinho/dealsbackend/repositories"
	"github.com/princinho/dealsbackend/services"
)

// GET /categories, optional ?q= name search and ?page=&limit=
func GetCategories(categories *services.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		f := repositories.CategoryFilter{Query: c.Query("q")}
		respondList(c,
			func(p repositories.PageRequest) (repositories.PageResult[models.Category], error) {
				return categories.ListPage(ctx, f, p)
			},
			func() ([]models.Category, error) { return categories.List(ctx, f) },
		)
	}
}

func GetCategory(categories *services.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		cat, err := categories.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cat)
	}
}

func AddCategory(categories *services.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireRole(c, models.RoleAdmin); !ok {
			return
		}
		var body dto.CreateCategoryDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		cat, err := categories.Create(c.Request.Context(), body.Name)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, cat)
	}
}

func UpdateCategory(categories *services.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireRole(c, models.RoleAdmin); !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var body dto.UpdateCategoryDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		cat, err := categories.Update(c.Request.Context(), id, body.Name)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cat)
	}
}

func DeleteCategory(categories *services.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireRole(c, models.RoleAdmin); !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := categories.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
