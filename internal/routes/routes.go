package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mvc-is/portal/internal/auth"
	"github.com/mvc-is/portal/internal/handlers"
	"github.com/mvc-is/portal/internal/metrics"
	"github.com/mvc-is/portal/internal/middleware"
)

// Options are the router-wide collaborators.
type Options struct {
	AllowedOrigin string
	Sessions      auth.SessionProvider
	Metrics       *metrics.Metrics
	Log           *zap.Logger
}

func SetupRouter(h *handlers.Handlers, opts Options) *gin.Engine {
	router := gin.New()

	// --- Global middleware ---
	// CORS answers preflights before anything else runs; the access router
	// sees every other request, pages and API alike.
	router.Use(
		middleware.CORS(opts.AllowedOrigin),
		gin.Recovery(),
		middleware.RequestLogger(opts.Log),
		middleware.Metrics(opts.Metrics),
		middleware.AccessRouter(opts.Sessions, opts.Metrics, opts.Log),
	)

	// --- Public ---
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong!"})
	})
	router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	router.GET("/", h.LoginPage)
	router.GET("/reset-password", h.ResetPasswordPage)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/signup", h.SignUp)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", middleware.RequireIdentity(), h.Logout)
		authGroup.POST("/password/forgot", h.ForgotPassword)
		authGroup.POST("/password/reset", h.ResetPassword)
	}

	// --- HR Dashboard ---
	hr := router.Group("/hr_dashboard")
	{
		hr.GET("", h.HRDashboard)
		hr.GET("/employee_directory", h.EmployeeDirectory)
	}

	// --- MIS Dashboard ---
	mis := router.Group("/mis_dashboard")
	{
		mis.GET("", h.MISDashboard)

		inv := mis.Group("/inventory")
		inv.GET("", h.GetMyInventoryItems)
		inv.GET("/categories", h.GetInventoryCategories)
		inv.GET("/:category/export.pdf", h.ExportInventoryPDF)
		inv.POST("/:category", h.CreateInventoryItem)
		inv.PUT("/:category/:id", h.UpdateInventoryItem)
		inv.DELETE("/:category/:id", h.DeleteInventoryItem)
	}

	// --- Other department dashboards ---
	router.GET("/operations_dashboard", h.OperationsDashboard)
	router.GET("/logistics_dashboard", h.LogisticsDashboard)
	router.GET("/finance_dashboard", h.WelcomeDashboard)
	router.GET("/marketing_dashboard", h.WelcomeDashboard)
	router.GET("/dashboard", h.WelcomeDashboard)

	return router
}
