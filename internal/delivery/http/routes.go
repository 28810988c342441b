package http

import (
	"github.com/gin-gonic/gin"

	"github.com/malcolmdjones/dishco-sub002/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(UserMiddleware(cfg.Auth.JWTSecret))
	{
		recipes := v1.Group("/recipes")
		{
			recipes.GET("", handler.ListRecipes)
			recipes.GET("/:id", handler.GetRecipe)
		}

		nutrition := v1.Group("/nutrition")
		{
			nutrition.POST("/day", handler.DayNutrition)
			nutrition.POST("/week", handler.WeekNutrition)
		}

		plans := v1.Group("/plans")
		{
			plans.GET("", handler.ListPlans)
			plans.POST("", handler.CreatePlan)
			plans.POST("/generate", handler.GeneratePlan)
			plans.POST("/regenerate", handler.RegenerateDay)
			plans.GET("/:id", handler.GetPlan)
			plans.PATCH("/:id", handler.UpdatePlan)
			plans.DELETE("/:id", handler.DeletePlan)
			plans.POST("/:id/activate", handler.ActivatePlan)
		}

		grocery := v1.Group("/grocery")
		{
			grocery.GET("", handler.ListGrocery)
			grocery.POST("/merge", handler.MergeGrocery)
			grocery.GET("/export.pdf", handler.ExportGroceryPDF)
			grocery.PATCH("/:id/toggle", handler.ToggleGroceryItem)
			grocery.DELETE("/checked", handler.DeleteCheckedGrocery)
			grocery.DELETE("/:id", handler.DeleteGroceryItem)
			grocery.DELETE("", handler.ClearGrocery)
		}

		mealLog := v1.Group("/meal-log")
		{
			mealLog.GET("/streak", handler.MealLogStreak)
			mealLog.GET("/:date", handler.GetMealLog)
			mealLog.POST("/:date", handler.LogMeal)
			mealLog.GET("/:date/summary", handler.MealLogSummary)
			mealLog.DELETE("/:date/:entryId", handler.DeleteMealLogEntry)
		}

		foods := v1.Group("/foods")
		{
			foods.POST("/search", handler.SearchFoods)
		}
	}

	return router
}
