package routes

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"resort-backend/controllers"
	"resort-backend/middleware"
	"resort-backend/models"
	"resort-backend/services"
)

// Deps is everything the router needs to mount the API.
type Deps struct {
	Auth       *controllers.AuthController
	Admin      *controllers.AdminController
	Categories *controllers.CategoryController
	Offerings  *controllers.OfferingController
	Bookings   *controllers.BookingController

	Tokens middleware.TokenVerifier
	Users  middleware.UserLoader

	Logger      *slog.Logger
	UploadDir   string
	CorsOrigins string
}

func parseCorsOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(d.Logger))
	if d.UploadDir != "" {
		r.Static("/uploads", d.UploadDir)
	}

	origins := parseCorsOrigins(d.CorsOrigins)
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			// browsers reject credentialed requests to a wildcard origin
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	requireUser := middleware.Authenticate(d.Tokens, d.Users, services.UserCookie, models.RoleUser)
	requireAdmin := middleware.Authenticate(d.Tokens, d.Users, services.AdminCookie, models.RoleAdmin)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", d.Auth.Register)
			auth.POST("/login", d.Auth.Login)
			auth.POST("/logout", d.Auth.Logout)
			auth.GET("/me", requireUser, d.Auth.Me)
			auth.PATCH("/password", requireUser, d.Auth.ChangePassword)

			offering := auth.Group("/offering", requireUser)
			{
				offering.GET("", d.Offerings.UserList)
				offering.GET("/:id", d.Offerings.Get)
			}

			booking := auth.Group("/booking", requireUser)
			{
				booking.POST("/create", d.Bookings.Create)
				booking.GET("", d.Bookings.ListMine)
				booking.GET("/:bookingId", d.Bookings.GetMine)
				booking.PATCH("/cancel/:bookingId", d.Bookings.Cancel)
			}
		}

		admin := api.Group("/admin")
		{
			admin.POST("/login", d.Admin.Login)
			admin.GET("/get", requireAdmin, d.Admin.Get)
			admin.POST("/logout", requireAdmin, d.Admin.Logout)
			admin.GET("/user", requireAdmin, d.Admin.Users)

			category := admin.Group("/category", requireAdmin)
			{
				category.GET("", d.Categories.List)
				category.POST("/add", d.Categories.Create)
				category.POST("/edit/:id", d.Categories.Update)
				category.DELETE("/delete/:id", d.Categories.Delete)
			}

			offering := admin.Group("/offering", requireAdmin)
			{
				offering.GET("/get", d.Offerings.AdminList)
				offering.POST("/add", d.Offerings.Create)
				offering.POST("/edit/:id", d.Offerings.Update)
				offering.DELETE("/delete/:id", d.Offerings.Delete)
			}

			booking := admin.Group("/booking", requireAdmin)
			{
				booking.GET("", d.Bookings.ListAll)
				booking.GET("/:id", d.Bookings.Get)
				booking.PUT("/edit/:id", d.Bookings.UpdateStatus)
			}
		}
	}

	return r
}
