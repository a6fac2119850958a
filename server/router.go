// Package server assembles the HTTP surface.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/princinho/dealsbackend/auth"
	"github.com/princinho/dealsbackend/controllers"
	"github.com/princinho/dealsbackend/middleware"
	"github.com/princinho/dealsbackend/services"
	"github.com/redis/go-redis/v9"
)

type Services struct {
	Accounts    *services.AccountService
	Categories  *services.CategoryService
	Deals       *services.DealService
	Likes       *services.LikeService
	Messages    *services.MessageService
	Links       *services.LinkService
	Roles       *services.RoleService
	Permissions *services.PermissionService
	Profiles    *services.UserProfileService
}

type Options struct {
	AllowedOrigins []string
	Cookies        controllers.CookieConfig
	// Redis enables rate limiting of the /connection routes when set.
	Redis               redis.UniversalClient
	AuthRateLimitPerMin int
}

// router registers handlers while recording which ones skip the guard.
type router struct {
	public middleware.PublicRoutes
}

func (rt router) open(g *gin.RouterGroup, method, path string, h gin.HandlerFunc) {
	rt.public.Add(method, joinPath(g.BasePath(), path))
	g.Handle(method, path, h)
}

func joinPath(base, path string) string {
	if base == "/" {
		return path
	}
	if path == "" {
		return base
	}
	return base + path
}

func NewRouter(logger *slog.Logger, tokens *auth.TokenManager, users middleware.UserLoader, svc Services, opts Options) *gin.Engine {
	r := gin.New()

	allowedOrigins := map[string]bool{}
	for _, origin := range opts.AllowedOrigins {
		allowedOrigins[origin] = true
	}
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestLogger(logger))
	r.Use(gin.Recovery())

	rt := router{public: middleware.NewPublicRoutes()}
	r.Use(middleware.Guard(tokens, users, rt.public))
	root := &r.RouterGroup

	rt.open(root, http.MethodGet, "/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	conn := r.Group("/connection")
	if opts.Redis != nil {
		conn.Use(middleware.RateLimit(opts.Redis, opts.AuthRateLimitPerMin, time.Minute, logger))
	}
	{
		rt.open(conn, http.MethodPost, "/signup", controllers.Signup(svc.Accounts, opts.Cookies))
		rt.open(conn, http.MethodPost, "/login", controllers.Login(svc.Accounts, opts.Cookies))
		rt.open(conn, http.MethodGet, "/verify-email", controllers.VerifyEmail(svc.Accounts))
		rt.open(conn, http.MethodPost, "/forgot-password", controllers.ForgotPassword(svc.Accounts))
		rt.open(conn, http.MethodPost, "/reset-password", controllers.ResetPassword(svc.Accounts))
		conn.PUT("/:id", controllers.UpdateProfile(svc.Accounts))
	}

	categories := r.Group("/categories")
	{
		rt.open(categories, http.MethodGet, "", controllers.GetCategories(svc.Categories))
		rt.open(categories, http.MethodGet, "/:id", controllers.GetCategory(svc.Categories))
		categories.POST("", controllers.AddCategory(svc.Categories))
		categories.PUT("/:id", controllers.UpdateCategory(svc.Categories))
		categories.DELETE("/:id", controllers.DeleteCategory(svc.Categories))
	}

	deals := r.Group("/deals")
	{
		deals.GET("", controllers.GetDeals(svc.Deals, false))
		rt.open(deals, http.MethodGet, "/active", controllers.GetDeals(svc.Deals, true))
		deals.GET("/with-likes", controllers.GetDealsWithLikes(svc.Deals, false))
		rt.open(deals, http.MethodGet, "/active-with-likes", controllers.GetDealsWithLikes(svc.Deals, true))
		deals.GET("/:id", controllers.GetDeal(svc.Deals))
		deals.POST("", controllers.CreateDeal(svc.Deals))
		deals.PUT("/:id", controllers.UpdateDeal(svc.Deals))
		deals.DELETE("/:id", controllers.DeleteDeal(svc.Deals))
		deals.PUT("/:id/activate", controllers.ActivateDeal(svc.Deals))
		deals.POST("/:id/validate", controllers.ValidateDeal(svc.Deals))
		deals.POST("/:id/image", controllers.UploadDealImage(svc.Deals))
	}

	likes := r.Group("/likes")
	{
		likes.POST("/:dealId/like", controllers.ToggleLike(svc.Likes))
		likes.GET("/has-liked/:dealId", controllers.HasLiked(svc.Likes))
		rt.open(likes, http.MethodGet, "/count/:dealId", controllers.CountLikes(svc.Likes))
	}

	messages := r.Group("/messages")
	{
		messages.POST("/send", controllers.SendMessage(svc.Messages))
		messages.GET("/conversation/:user1Id/:user2Id", controllers.GetConversation(svc.Messages))
		messages.GET("/all", controllers.GetAllMessages(svc.Messages))
	}

	roles := r.Group("/roles")
	{
		roles.GET("", controllers.GetRoles(svc.Roles))
		roles.GET("/:id", controllers.GetRole(svc.Roles))
		roles.POST("", controllers.CreateRole(svc.Roles))
		roles.POST("/add-permission", controllers.AddPermissionToRole(svc.Roles))
		roles.PUT("/:id", controllers.RenameRole(svc.Roles))
		roles.PUT("/:id/permissions", controllers.ReplaceRolePermissions(svc.Roles))
		roles.DELETE("/:id", controllers.DeleteRole(svc.Roles))
	}

	permissions := r.Group("/permission")
	{
		permissions.GET("", controllers.GetPermissions(svc.Permissions))
		permissions.GET("/:id", controllers.GetPermission(svc.Permissions))
		permissions.POST("", controllers.CreatePermission(svc.Permissions))
		permissions.PATCH("/:id", controllers.UpdatePermission(svc.Permissions))
		permissions.DELETE("/:id", controllers.DeletePermission(svc.Permissions))
	}

	profiles := r.Group("/user-profile")
	{
		profiles.GET("/me", controllers.GetMyProfile(svc.Profiles))
		profiles.GET("", controllers.GetUsers(svc.Profiles))
		profiles.PUT("/:id/roles", controllers.UpdateUserRoles(svc.Profiles))
	}

	links := r.Group("/links")
	{
		links.GET("", controllers.GetLinks(svc.Links, false))
		rt.open(links, http.MethodGet, "/active", controllers.GetLinks(svc.Links, true))
		links.GET("/:id", controllers.GetLink(svc.Links))
		links.POST("", controllers.CreateLink(svc.Links))
		links.PUT("/:id", controllers.UpdateLink(svc.Links))
		links.DELETE("/:id", controllers.DeleteLink(svc.Links))
		links.POST("/:id/validate", controllers.ValidateLink(svc.Links))
	}

	return r
}
