package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/princinho/dealsbackend/apperror"
	"github.com/princinho/dealsbackend/auth"
	"github.com/princinho/dealsbackend/middleware"
	"github.com/princinho/dealsbackend/repositories"
	"github.com/princinho/dealsbackend/utils"
)

// respondError writes err using its kind; infrastructure details are only
// attached to the gin context for the request logger.
func respondError(c *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": apperror.PublicMessage(err)})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func currentIdentity(c *gin.Context) (*auth.Identity, bool) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
		return nil, false
	}
	return id, true
}

// requireRole passes when the caller holds any of roles.
func requireRole(c *gin.Context, roles ...string) (*auth.Identity, bool) {
	id, ok := currentIdentity(c)
	if !ok {
		return nil, false
	}
	if !id.HasAnyRole(roles...) {
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
		return nil, false
	}
	return id, true
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := utils.ParseID(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// pageRequest reads the optional page and limit query params. Lists are
// only paginated when at least one of them is present.
func pageRequest(c *gin.Context) (repositories.PageRequest, bool) {
	page, limit := c.Query("page"), c.Query("limit")
	if page == "" && limit == "" {
		return repositories.PageRequest{}, false
	}
	return repositories.PageRequest{
		Page:  utils.ParseIntDefault(page, repositories.DefaultPage),
		Limit: utils.ParseIntDefault(limit, repositories.DefaultPageSize),
	}, true
}

// boolQuery returns nil when the param is absent.
func boolQuery(c *gin.Context, name string) (*bool, bool) {
	b, err := utils.ParseBoolQuery(c.Query(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a boolean"})
		return nil, false
	}
	return b, true
}

// respondList writes either one page or the full list.
func respondList[T any](c *gin.Context, f func(repositories.PageRequest) (repositories.PageResult[T], error), all func() ([]T, error)) {
	if p, paged := pageRequest(c); paged {
		res, err := f(p)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
		return
	}
	list, err := all()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type CookieConfig struct {
	Secure bool
	Domain string
	TTL    time.Duration
}

func setTokenCookie(c *gin.Context, cfg CookieConfig, token string) {
	sameSite := http.SameSiteLaxMode
	if cfg.Secure {
		sameSite = http.SameSiteNoneMode // for cross-site
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Domain:   cfg.Domain,
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: sameSite,
	})
}
