package routes

import (
	"net/http"
	"time"

	"eventhub/docs"
	"eventhub/internal/analytics"
	"eventhub/internal/auth"
	"eventhub/internal/categories"
	"eventhub/internal/comments"
	"eventhub/internal/events"
	"eventhub/internal/notifications"
	"eventhub/internal/ratings"
	"eventhub/internal/refunds"
	"eventhub/internal/shared/config"
	"eventhub/internal/shared/database"
	"eventhub/internal/surveys"
	"eventhub/internal/tickets"
	"eventhub/internal/venues"
	"eventhub/pkg/cache"
	"eventhub/pkg/logger"
	"eventhub/pkg/metrics"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const serviceName = "eventhub-backend"

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	cache     cache.Service
	publisher notifications.Publisher
	log       *logger.Logger
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, cacheService cache.Service, publisher notifications.Publisher, log *logger.Logger) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		cache:     cacheService,
		publisher: publisher,
		log:       log,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	if r.config.Metrics.Enabled {
		engine.GET(r.config.Metrics.Path, metrics.Handler())
	}

	docs.SwaggerInfo.BasePath = r.config.GetAPIBasePath()
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := engine.Group(r.config.GetAPIBasePath())
	r.setupDomainRoutes(api)
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   serviceName,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   serviceName,
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"kafka":       r.config.Kafka.Enabled,
			"cache":       r.config.Redis.CacheEnabled,
			"timestamp":   time.Now(),
		})
	})
}

// setupDomainRoutes builds every service in dependency order and mounts
// its routes. Ratings read events and events show ratings, so the rating
// reader is attached once both exist.
func (r *Router) setupDomainRoutes(api *gin.RouterGroup) {
	pg := r.db.GetPostgreSQL()

	authRepo := auth.NewRepository(pg)
	authService := auth.NewService(authRepo, r.config, r.log)
	auth.NewRouter(auth.NewController(authService, r.log), r.config).SetupRoutes(api)

	venueService := venues.NewService(venues.NewRepository(pg))
	venues.SetupVenueRoutes(api, venues.NewController(venueService, r.log), r.config)

	categoryService := categories.NewService(categories.NewRepository(pg), r.cache, r.log)
	categories.SetupCategoryRoutes(api, categories.NewController(categoryService, r.log), r.config)

	eventService := events.NewService(events.NewRepository(pg), categoryService, r.cache, r.log)
	events.SetupEventRoutes(api, events.NewController(eventService, r.log), r.config)

	ratingService := ratings.NewService(ratings.NewRepository(pg), eventService, r.cache, r.log)
	eventService.SetRatingReader(ratings.NewEventRatingReader(ratingService))
	ratings.SetupRatingRoutes(api, ratings.NewController(ratingService, r.log), r.config)

	ticketService := tickets.NewService(tickets.NewRepository(pg), eventService, r.publisher, r.log)
	tickets.SetupTicketRoutes(api, tickets.NewController(ticketService, r.log), r.config)

	surveyService := surveys.NewService(surveys.NewRepository(pg), ticketService, r.log)
	surveys.SetupSurveyRoutes(api, surveys.NewController(surveyService, r.log), r.config)

	commentService := comments.NewService(comments.NewRepository(pg), eventService, r.log)
	comments.SetupCommentRoutes(api, comments.NewController(commentService, r.log), r.config)

	refundService := refunds.NewService(refunds.NewRepository(pg), r.publisher, r.log)
	refunds.SetupRefundRoutes(api, refunds.NewController(refundService, r.log), r.config)

	analyticsService := analytics.NewService(analytics.NewRepository(pg), r.cache, r.log)
	analytics.SetupAnalyticsRoutes(api, analytics.NewController(analyticsService, r.log), r.config)
}
