package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"mobispa/internal/api"
	"mobispa/internal/auth"
	"mobispa/internal/availability"
	"mobispa/internal/repository"
	"mobispa/internal/service"
	"mobispa/internal/travel"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	database, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := database.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	zoneName := os.Getenv("BOOKING_TZ")
	if zoneName == "" {
		zoneName = "America/Los_Angeles"
	}
	zone, err := time.LoadLocation(zoneName)
	if err != nil {
		log.Fatalf("Invalid BOOKING_TZ %q: %v", zoneName, err)
	}

	defaultBuffer := availability.DefaultBufferMinutes
	if v := os.Getenv("DEFAULT_BUFFER_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			defaultBuffer = n
		}
	}

	var oracle availability.Oracle = travel.NewClient(os.Getenv("MAPS_API_KEY"))
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")})
		oracle = travel.NewCachedOracle(oracle, rdb, time.Hour)
		log.Printf("Travel time cache enabled (redis at %s)", addr)
	}
	resolver := availability.NewResolver(oracle)

	blockRepo := repository.NewAvailabilityRepository(database)
	bookingRepo := repository.NewBookingRepository(database)
	userRepo := repository.NewUserRepository(database)
	invitationRepo := repository.NewInvitationRepository(database)
	jobRepo := repository.NewJobRepository(database)

	availabilitySvc := service.NewAvailabilityService(blockRepo, bookingRepo, userRepo, resolver, zone, defaultBuffer)
	bookingSvc := service.NewBookingService(bookingRepo, availabilitySvc, zone)
	authSvc := service.NewAuthService(userRepo)
	invitationSvc := service.NewInvitationService(invitationRepo, userRepo)
	jobSvc := service.NewJobService(jobRepo, invitationRepo)

	availabilityHandler := api.NewAvailabilityHandler(availabilitySvc)
	bookingHandler := api.NewBookingHandler(bookingSvc)
	authHandler := api.NewAuthHandler(authSvc)
	invitationHandler := api.NewInvitationHandler(invitationSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/invitations/accept", invitationHandler.AcceptInvitation).Methods("POST")
	r.HandleFunc("/api/availability/available/{date}", availabilityHandler.GetAvailableSlots).Methods("GET")

	// Authenticated endpoints
	authed := r.PathPrefix("/api").Subrouter()
	authed.Use(auth.Middleware)
	authed.HandleFunc("/bookings", bookingHandler.CreateBooking).Methods("POST")
	authed.HandleFunc("/bookings", bookingHandler.ListBookings).Methods("GET")
	authed.HandleFunc("/bookings/{code}", bookingHandler.GetBooking).Methods("GET")
	authed.HandleFunc("/bookings/{code}", bookingHandler.CancelBooking).Methods("DELETE")

	// Provider endpoints
	provider := authed.PathPrefix("/provider").Subrouter()
	provider.Use(auth.RequireProvider)
	provider.HandleFunc("/availability", availabilityHandler.CreateAvailability).Methods("POST")
	provider.HandleFunc("/availability/{date}", availabilityHandler.ListBlocks).Methods("GET")
	provider.HandleFunc("/availability/{id}", availabilityHandler.DeleteBlock).Methods("DELETE")
	provider.HandleFunc("/invitations", invitationHandler.CreateInvitation).Methods("POST")

	c := cron.New()
	c.AddFunc("*/10 * * * *", func() {
		if err := jobSvc.UpdateFinishedBookings(); err != nil {
			log.Printf("%v", err)
		}
	})
	c.AddFunc("0 3 * * *", func() {
		if err := jobSvc.PurgeExpiredInvitations(); err != nil {
			log.Printf("%v", err)
		}
	})
	c.Start()
	defer c.Stop()

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler(handlers.LoggingHandler(os.Stdout, r))))
}
