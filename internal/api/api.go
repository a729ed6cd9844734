package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/bluebird1313/reporder/internal/api/handlers"
	"github.com/bluebird1313/reporder/internal/api/middleware"
	"github.com/bluebird1313/reporder/internal/crm"
	"github.com/bluebird1313/reporder/internal/service"
)

type Services struct {
	Forecasts  *service.ForecastService
	Stores     *service.StoreService
	Goals      *service.GoalService
	Alerts     *service.AlertService
	Dashboards *service.DashboardService
	CRM        *crm.Client
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")

	if services == nil {
		return router
	}

	if services.Forecasts != nil {
		forecastHandler := handlers.NewForecastHandler(services.Forecasts)
		apiGroup.GET("/forecast", forecastHandler.GetForecast)
	}

	if services.Stores != nil {
		storeHandler := handlers.NewStoreHandler(services.Stores)
		storeGroup := apiGroup.Group("/stores")
		{
			storeGroup.GET("", storeHandler.GetStores)
			storeGroup.GET("/:id", storeHandler.GetStore)
		}
	}

	if services.Goals != nil {
		goalHandler := handlers.NewGoalHandler(services.Goals)
		goalGroup := apiGroup.Group("/goals")
		{
			goalGroup.POST("", goalHandler.CreateGoal)
			goalGroup.PUT("/:id", goalHandler.UpdateGoal)
			goalGroup.GET("/:id/progress", goalHandler.GetGoalProgress)
		}
		apiGroup.GET("/reps/:rep_id/goals", goalHandler.ListGoalProgress)
	}

	if services.Alerts != nil {
		alertHandler := handlers.NewAlertHandler(services.Alerts)
		alertGroup := apiGroup.Group("/alerts")
		{
			alertGroup.GET("", alertHandler.GetAlerts)
			alertGroup.POST("/:id/resolve", alertHandler.ResolveAlert)
		}
	}

	if services.Dashboards != nil {
		dashboardHandler := handlers.NewDashboardHandler(services.Dashboards)
		dashboardGroup := apiGroup.Group("/dashboard")
		{
			dashboardGroup.GET("/summary", dashboardHandler.GetSummary)
			dashboardGroup.GET("/monthly-comparison", dashboardHandler.GetMonthlyComparison)
			dashboardGroup.GET("/top-customers", dashboardHandler.GetTopCustomers)
			dashboardGroup.GET("/rep-performance", dashboardHandler.GetSalesRepPerformance)
			dashboardGroup.GET("/recent-orders", dashboardHandler.GetRecentOrders)
		}
		inventoryGroup := apiGroup.Group("/inventory")
		{
			inventoryGroup.GET("/summary", dashboardHandler.GetInventorySummaries)
			inventoryGroup.GET("/summary/:id", dashboardHandler.GetStoreInventorySummary)
		}
	}

	if services.CRM != nil {
		crmHandler := handlers.NewCRMHandler(services.CRM)
		crmGroup := apiGroup.Group("/crm")
		{
			crmGroup.GET("/status", crmHandler.GetStatus)
			crmGroup.GET("/opportunities", crmHandler.GetStoreOpportunities)
			crmGroup.GET("/tasks/recent", crmHandler.GetRecentTasks)
			crmGroup.POST("/boxes/:box/tasks/:task/complete", crmHandler.CompleteTask)
			crmGroup.GET("/contacts/search", crmHandler.SearchContacts)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
