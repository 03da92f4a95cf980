package app

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saloniq/salon-booking-backend/internal/api"
	"github.com/saloniq/salon-booking-backend/internal/auth"
	"github.com/saloniq/salon-booking-backend/internal/availability"
	"github.com/saloniq/salon-booking-backend/internal/booking"
	"github.com/saloniq/salon-booking-backend/internal/cache"
	"github.com/saloniq/salon-booking-backend/internal/catalog"
	"github.com/saloniq/salon-booking-backend/internal/clientele"
	"github.com/saloniq/salon-booking-backend/internal/notify"
	"github.com/saloniq/salon-booking-backend/internal/salon"
	"github.com/saloniq/salon-booking-backend/internal/schedule"
	"github.com/saloniq/salon-booking-backend/internal/staff"
	"github.com/saloniq/salon-booking-backend/internal/timeblock"
	"github.com/saloniq/salon-booking-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	DBPool         *pgxpool.Pool
	Cache          *cache.Cache // nil disables the availability cache and event publishing
	JWTSecret      string
	JWTTTL         time.Duration
	BcryptCost     int
	RateLimitRPS   float64
	RateLimitBurst int
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// User module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Salon module
	salonRepo := salon.NewPgxRepository(cfg.DBPool)
	salonService := salon.NewService(salonRepo)

	// Staff module
	staffRepo := staff.NewPgxRepository(cfg.DBPool)
	staffService := staff.NewService(staffRepo)

	// Catalog module
	catalogRepo := catalog.NewPgxRepository(cfg.DBPool)
	catalogService := catalog.NewService(catalogRepo)

	// Clientele module
	clienteleRepo := clientele.NewPgxRepository(cfg.DBPool)
	clienteleService := clientele.NewService(clienteleRepo)

	// Schedule module; salon and staff services supply the weekly hours.
	scheduleRepo := schedule.NewPgxRepository(cfg.DBPool)
	scheduleService := schedule.NewService(scheduleRepo, salonService, staffService)

	// Time block module
	timeblockRepo := timeblock.NewPgxRepository(cfg.DBPool)
	timeblockService := timeblock.NewService(timeblockRepo)

	// Booking module
	var dispatcher notify.Dispatcher = notify.NopDispatcher{}
	if cfg.Cache != nil {
		dispatcher = notify.NewRedisDispatcher(cfg.Cache.Client())
	}
	bookingStore := booking.NewPgxStore(cfg.DBPool)
	bookingService := booking.NewService(bookingStore, salonService, catalogService, staffService, scheduleService, dispatcher)

	// Availability module
	intervalSource := availability.NewPgxIntervalSource(cfg.DBPool)
	var summaryCache availability.SummaryCache
	if cfg.Cache != nil {
		summaryCache = cfg.Cache
	}
	availabilityService := availability.NewService(intervalSource, salonService, catalogService, staffService, scheduleService, summaryCache)

	router := api.NewRouter(api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         splitOrigins(cfg.ProdOrigins),
		RateLimitRPS:        cfg.RateLimitRPS,
		RateLimitBurst:      cfg.RateLimitBurst,
		UserService:         userService,
		SalonService:        salonService,
		StaffService:        staffService,
		CatalogService:      catalogService,
		ClienteleService:    clienteleService,
		ScheduleService:     scheduleService,
		TimeBlockService:    timeblockService,
		BookingService:      bookingService,
		AvailabilityService: availabilityService,
		JWTManager:          jwtManager,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}
}

func splitOrigins(origins string) []string {
	var out []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
