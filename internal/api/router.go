package api

import (
    "github.com/gin-gonic/gin"
    swaggerFiles "github.com/swaggo/files"
    ginSwagger "github.com/swaggo/gin-swagger"

    _ "github.com/classtrack/classtrack-back/docs"
    "github.com/classtrack/classtrack-back/internal/auth"
    "github.com/classtrack/classtrack-back/internal/config"
    "github.com/classtrack/classtrack-back/internal/db"
    "github.com/classtrack/classtrack-back/internal/models"
)

// @title           ClassTrack API
// @version         1.0
// @description     Learning-management backend: attendance, marks and course materials.
// @host            localhost:8080
// @BasePath        /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func SetupRouter(cfg *config.Config) *gin.Engine {
    auth.InitGoogle(cfg)

    r := gin.Default()

    // Public routes
    r.GET("/health", func(c *gin.Context) {
        if err := db.PingDB(); err != nil {
            c.JSON(500, gin.H{"status": "db_ping_error"})
            return
        }
        c.JSON(200, gin.H{"status": "ok"})
    })

    r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

    // Static client
    r.StaticFile("/", "./web/index.html")
    r.StaticFile("/app.js", "./web/app.js")

    api := r.Group("/api")

    authRoutes := api.Group("/auth")
    authRoutes.POST("/register", auth.RegisterHandler(cfg))
    authRoutes.POST("/login", auth.LoginHandler(cfg))
    if auth.GoogleEnabled() {
        authRoutes.GET("/google/login", auth.GoogleLoginHandler())
        authRoutes.GET("/google/callback", auth.GoogleCallbackHandler(cfg))
    }

    // Protected
    protected := api.Group("")
    protected.Use(auth.AuthMiddleware(cfg))
    {
        staff := auth.RequireRoles(models.RoleTeacher, models.RoleAdmin)

        protected.GET("/auth/me", auth.MeHandler)

        protected.GET("/attendance", ListAttendance)
        protected.POST("/attendance", staff, CreateAttendance)

        protected.GET("/marks", ListMarks)
        protected.POST("/marks", staff, CreateMarks)

        protected.GET("/materials", ListMaterials)
        protected.POST("/materials", staff, CreateMaterial)
        protected.DELETE("/materials/:id", DeleteMaterial)

        protected.GET("/reports/export", staff, ExportReport)
    }

    return r
}
