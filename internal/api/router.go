package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/saloniq/salon-booking-backend/internal/auth"
	"github.com/saloniq/salon-booking-backend/internal/availability"
	availHttp "github.com/saloniq/salon-booking-backend/internal/availability/http"
	"github.com/saloniq/salon-booking-backend/internal/booking"
	bookingHttp "github.com/saloniq/salon-booking-backend/internal/booking/http"
	"github.com/saloniq/salon-booking-backend/internal/catalog"
	catalogHttp "github.com/saloniq/salon-booking-backend/internal/catalog/http"
	"github.com/saloniq/salon-booking-backend/internal/clientele"
	clienteleHttp "github.com/saloniq/salon-booking-backend/internal/clientele/http"
	"github.com/saloniq/salon-booking-backend/internal/salon"
	salonHttp "github.com/saloniq/salon-booking-backend/internal/salon/http"
	"github.com/saloniq/salon-booking-backend/internal/schedule"
	scheduleHttp "github.com/saloniq/salon-booking-backend/internal/schedule/http"
	"github.com/saloniq/salon-booking-backend/internal/staff"
	staffHttp "github.com/saloniq/salon-booking-backend/internal/staff/http"
	"github.com/saloniq/salon-booking-backend/internal/timeblock"
	timeblockHttp "github.com/saloniq/salon-booking-backend/internal/timeblock/http"
	"github.com/saloniq/salon-booking-backend/internal/user"
	userHttp "github.com/saloniq/salon-booking-backend/internal/user/http"
)

// Config carries the services and settings the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  []string

	RateLimitRPS   float64
	RateLimitBurst int

	UserService         user.Service
	SalonService        salon.Service
	StaffService        staff.Service
	CatalogService      catalog.CatalogService
	ClienteleService    clientele.Service
	ScheduleService     schedule.Service
	TimeBlockService    timeblock.Service
	BookingService      booking.Service
	AvailabilityService availability.Service

	JWTManager *auth.JWTManager
}

// NewRouter assembles the middleware chain and registers every module's
// routes under /v1.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(RequestLogger(), gin.Recovery())

	if cfg.RateLimitRPS > 0 {
		r.Use(RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		corsConfig.AllowOrigins = cfg.ProdOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMiddleware := auth.AuthRequired(cfg.JWTManager)

	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	salonHandler := salonHttp.NewHandler(cfg.SalonService)
	staffHandler := staffHttp.NewHandler(cfg.StaffService)
	catalogHandler := catalogHttp.NewHandler(cfg.CatalogService)
	clienteleHandler := clienteleHttp.NewHandler(cfg.ClienteleService)
	scheduleHandler := scheduleHttp.NewHandler(cfg.ScheduleService)
	timeblockHandler := timeblockHttp.NewHandler(cfg.TimeBlockService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	availHandler := availHttp.NewHandler(cfg.AvailabilityService)

	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware)
		salonHttp.RegisterRoutes(v1, salonHandler, authMiddleware)
		staffHttp.RegisterRoutes(v1, staffHandler, authMiddleware)
		catalogHttp.RegisterRoutes(v1, catalogHandler, authMiddleware)
		clienteleHttp.RegisterRoutes(v1, clienteleHandler, authMiddleware)
		scheduleHttp.RegisterRoutes(v1, scheduleHandler, authMiddleware)
		timeblockHttp.RegisterRoutes(v1, timeblockHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
		availHttp.RegisterRoutes(v1, availHandler)
	}

	return r
}
