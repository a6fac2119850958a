package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/dealsbackend/dto"
	"github.com/princinho/dealsbackend/models"
	"github.com/princinho/dealsbackend/repositories"
	"github.com/princinho/dealsbackend/services"
)

// GET /links (optional ?validated=) and GET /links/active, both with ?page=&limit=
func GetLinks(links *services.LinkService, activeOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var f repositories.LinkFilter
		if activeOnly {
			validated := true
			f.Validated = &validated
		} else {
			validated, ok := boolQuery(c, "validated")
			if !ok {
				return
			}
			f.Validated = validated
		}
		respondList(c,
			func(p repositories.PageRequest) (repositories.PageResult[models.Link], error) {
				return links.ListPage(ctx, f, p)
			},
			func() ([]models.Link, error) { return links.List(ctx, f) },
		)
	}
}

func GetLink(links *services.LinkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		l, err := links.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, l)
	}
}

func CreateLink(links *services.LinkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentIdentity(c); !ok {
			return
		}
		var body dto.CreateLinkDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		l, err := links.Create(c.Request.Context(), services.LinkInput{
			Title:       body.Title,
			URL:         body.URL,
			Description: body.Description,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, l)
	}
}

func UpdateLink(links *services.LinkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireRole(c, models.RoleAdmin, models.RoleManager); !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var body dto.UpdateLinkDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		l, err := links.Update(c.Request.Context(), id, services.LinkUpdate{
			Title:       body.Title,
			URL:         body.URL,
			Description: body.Description,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, l)
	}
}

func DeleteLink(links *services.LinkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireRole(c, models.RoleAdmin, models.RoleManager); !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := links.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// POST /links/:id/validate
func ValidateLink(links *services.LinkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireRole(c, models.RoleAdmin, models.RoleManager); !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		l, err := links.Validate(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, l)
	}
}
