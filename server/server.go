package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"aquasmart/cache"
	"aquasmart/handlers"
	httpHandler "aquasmart/handlers/http"
	"aquasmart/repositories"
	"aquasmart/services"
	"aquasmart/session"
	"aquasmart/usecases"
	"aquasmart/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps are the wired components the HTTP surface exposes.
type Deps struct {
	Sessions  *session.Store
	Dashboard *services.DashboardService
	Watering  *usecases.WateringUseCase
	Activity  repositories.ActivityRepository
	Readings  *cache.ReadingCache
	Poller    *services.Poller
	Hub       *ws.Manager
	Log       *zap.SugaredLogger
}

type Server struct {
	app  *gin.Engine
	deps Deps
	log  *zap.SugaredLogger
}

func NewServer(deps Deps) *Server {
	if deps.Log == nil {
		deps.Log = zap.NewNop().Sugar()
	}
	if deps.Hub == nil {
		deps.Hub = ws.NewManager()
	}
	s := &Server{
		app:  gin.New(),
		deps: deps,
		log:  deps.Log,
	}
	s.app.Use(gin.Recovery(), s.requestLogger())
	s.routes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.app }

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debugw("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

func (s *Server) routes() {
	// Setup CORS middleware
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true // Allow all origins for development
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	s.app.Use(cors.New(config))

	// Setup healthcheck route
	s.app.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "OK",
		})
	})

	d := s.deps

	// Initialize handlers
	sessionHandler := httpHandler.NewSessionHandler(d.Sessions, s.log)
	fieldHandler := httpHandler.NewFieldHandler(d.Dashboard, d.Readings)
	weatherHandler := httpHandler.NewWeatherHandler(d.Dashboard)
	irrigationHandler := httpHandler.NewIrrigationHandler(d.Dashboard)
	wateringHandler := httpHandler.NewWateringHandler(d.Watering)
	activityHandler := httpHandler.NewActivityHandler(d.Activity)
	wsHandler := handlers.NewWSHandler(d.Hub, d.Watering, s.log)

	api := s.app.Group("/api/v1")
	{
		// Session routes
		sess := api.Group("/session")
		{
			sess.POST("/login", sessionHandler.Login)
			sess.POST("/register", sessionHandler.Register)
			sess.GET("", sessionHandler.Current)
			sess.DELETE("", sessionHandler.Logout)
		}

		// Everything below requires a logged-in user
		auth := api.Group("", httpHandler.RequireUser(d.Sessions))

		auth.GET("/dashboard", fieldHandler.GetSummary)

		fields := auth.Group("/fields")
		{
			fields.GET("", fieldHandler.GetFields)
			fields.POST("", fieldHandler.CreateField)
			fields.GET("/:id", fieldHandler.GetField)
			fields.PUT("/:id/plant-type", fieldHandler.ChangePlantType)
		}
		auth.GET("/fields-with-plants", fieldHandler.GetFieldsWithPlants)
		auth.GET("/plant-types", fieldHandler.GetPlantTypes)
		auth.GET("/sensors", fieldHandler.GetSensors)

		weather := auth.Group("/weather")
		{
			weather.GET("", weatherHandler.GetWeather)
			weather.GET("/districts", weatherHandler.GetDistricts)
			weather.GET("/:ilce/hourly", weatherHandler.GetHourly)
		}

		irrigation := auth.Group("/irrigation")
		{
			irrigation.GET("/advice", irrigationHandler.GetAdvice)
			irrigation.GET("/plans", irrigationHandler.GetPlans)
			irrigation.GET("/plans/:fieldId", irrigationHandler.GetPlan)
		}

		watering := auth.Group("/watering")
		{
			watering.GET("", wateringHandler.Active)
			watering.POST("", wateringHandler.Start)
			watering.DELETE("", wateringHandler.Stop)
			watering.GET("/history", wateringHandler.History)
		}

		auth.GET("/activity", activityHandler.GetActivity)
		auth.GET("/viewers", wsHandler.GetViewers)

		if d.Poller != nil && d.Readings != nil {
			cacheHandler := handlers.NewCacheHandler(d.Poller, d.Readings)
			c := auth.Group("/cache")
			{
				c.POST("/poll", cacheHandler.PollNow)
				c.GET("/stats", cacheHandler.GetCacheStats)
				c.GET("/fields/:id", cacheHandler.GetFieldHistory)
				c.DELETE("", cacheHandler.ClearCache)
			}
		}
	}

	s.app.GET("/ws", wsHandler.HandleViewerWS)
}

// Run serves on addr until ctx ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.app}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.deps.Hub.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
