package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/dealsbackend/dto"
	"github.com/princinho/dealsbackend/models"
	"github.com/princinho/dealsbackend/repositories"
	"github.com/princinho/dealsbackend/services"
)

// GET /deals and GET /deals/active, optional ?published= and ?page=&limit=
func GetDeals(deals *services.DealService, activeOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		published, ok := boolQuery(c, "published")
		if !ok {
			return
		}
		f := repositories.DealFilter{ActiveOnly: activeOnly, Published: published}
		respondList(c,
			func(p repositories.PageRequest) (repositories.PageResult[models.Deal], error) {
				return deals.ListPage(ctx, f, p)
			},
			func() ([]models.Deal, error) { return deals.List(ctx, f) },
		)
	}
}

// GET /deals/with-likes and GET /deals/active-with-likes
func GetDealsWithLikes(deals *services.DealService, activeOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := deals.ListWithLikeCounts(c.Request.Context(), activeOnly)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func GetDeal(deals *services.DealService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		d, err := deals.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

func CreateDeal(deals *services.DealService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentIdentity(c); !ok {
			return
		}
		var body dto.CreateDealDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		d, err := deals.Create(c.Request.Context(), services.DealInput{
			Title:       body.Title,
			Description: body.Description,
			ImageURL:    body.ImageURL,
			Price:       body.Price,
			DealURL:     body.DealURL,
			IsActive:    body.IsActive,
			Published:   body.Published,
			CategoryID:  body.CategoryID,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, d)
	}
}

func UpdateDeal(deals *services.DealService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireRole(c, models.RoleAdmin, models.RoleManager); !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var body dto.UpdateDealDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		d, err := deals.Update(c.Request.Context(), id, services.DealUpdate{
			Title:       body.Title,
			Description: body.Description,
			ImageURL:    body.ImageURL,
			Price:       body.Price,
			DealURL:     body.DealURL,
			IsActive:    body.IsActive,
			Published:   body.Published,
			CategoryID:  body.CategoryID,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

func DeleteDeal(deals *services.DealService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireRole(c, models.RoleAdmin, models.RoleManager); !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := deals.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// PUT /deals/:id/activate
func ActivateDeal(deals *services.DealService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireRole(c, models.RoleAdmin, models.RoleManager); !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		d, err := deals.Activate(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

// POST /deals/:id/validate
func ValidateDeal(deals *services.DealService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requester, ok := currentIdentity(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var body dto.ValidateDealDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		d, err := deals.SetValidation(c.Request.Context(), id, body.Role, *body.Validated, requester)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

// POST /deals/:id/image (multipart field "image")
func UploadDealImage(deals *services.DealService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireRole(c, models.RoleAdmin, models.RoleManager); !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		fh, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
			return
		}
		d, err := deals.UploadImage(c.Request.Context(), id, fh)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}
