package main

import (
	"log"
	"net/http"
	"os"

	"borla-backend/internal/database"
	"borla-backend/internal/handlers"
	"borla-backend/internal/middleware"
	"borla-backend/internal/models"
	"borla-backend/internal/services"
	"borla-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 BORLA BACKEND SERVER STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := database.Connect(dbURL)
	if err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	defer db.Close()

	log.Println("🔄 Running database migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatalf("❌ Database migrations failed: %v", err)
	}

	log.Println("🌱 Seeding database with initial data...")
	if err := database.SeedUsers(db); err != nil {
		log.Fatalf("❌ User seeding failed: %v", err)
	}
	if err := database.SeedZones(db); err != nil {
		log.Fatalf("❌ Zone seeding failed: %v", err)
	}

	// Routing policy (env-tunable)
	policy := services.PolicyFromEnv()
	log.Printf("⚙️  Routing policy: %.0f km/h, GHS %.2f/stop + %.2f/km",
		policy.AverageSpeedKmh, policy.PerStopRate, policy.DistanceBonusRate)

	// Initialize Firebase Cloud Messaging
	// Supports both file path and base64-encoded credentials (for cloud deployments)
	var fcmService *services.FCMService
	if fcmCredsBase64 := os.Getenv("FIREBASE_CREDENTIALS_BASE64"); fcmCredsBase64 != "" {
		fcmService, err = services.NewFCMServiceFromBase64(fcmCredsBase64)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from base64: %v (push notifications disabled)", err)
			fcmService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from base64 credentials")
		}
	} else {
		fcmCredentialsFile := os.Getenv("FIREBASE_CREDENTIALS_FILE")
		if fcmCredentialsFile == "" {
			fcmCredentialsFile = "./firebase-service-account.json"
		}
		fcmService, err = services.NewFCMService(fcmCredentialsFile)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from file: %v (push notifications disabled)", err)
			fcmService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from file")
		}
	}

	// Initialize WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()
	log.Println("✅ WebSocket hub started")

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Authentication routes (no auth required)
	r.Post("/api/auth/login", handlers.Login(db))

	// WebSocket endpoint (authentication handled in handler via query param)
	r.Get("/ws", websocket.HandleWebSocket(wsHub, db))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth)

		// Auth
		r.Get("/auth/status", handlers.AuthStatus(db))

		// Zones
		r.Get("/zones", handlers.GetZones(db))
		r.Get("/zones/{id}", handlers.GetZone(db))
		r.Get("/zones/{id}/contains", handlers.CheckZonePoint(db))

		// Clients
		r.Get("/clients", handlers.GetClients(db))
		r.Get("/clients/{id}", handlers.GetClient(db))
		r.Post("/clients", handlers.CreateClient(db))

		// Collectors
		r.Get("/collectors", handlers.GetCollectors(db))
		r.Get("/collectors/{id}", handlers.GetCollector(db))
		r.Post("/collector/location", handlers.UpdateCollectorLocation(db, wsHub.BroadcastCollectorLocation))

		// Pickup requests
		r.Post("/requests/on-demand", handlers.CreateOnDemandRequest(db))
		r.Get("/requests/on-demand", handlers.GetOnDemandRequests(db))
		r.Post("/requests/on-demand/{id}/cancel", handlers.CancelOnDemandRequest(db))
		r.Post("/requests/scheduled", handlers.CreateScheduledRequest(db))
		r.Get("/requests/scheduled", handlers.GetScheduledRequests(db))
		r.Post("/requests/scheduled/{id}/cancel", handlers.CancelScheduledRequest(db))

		// Routes (read for any authenticated user)
		r.Get("/routes", handlers.GetRoutesHandler(db))
		r.Get("/routes/{id}", handlers.GetRouteHandler(db))

		// Collection records
		r.Get("/collections", handlers.GetCollectionRecords(db))
		r.Get("/collections/{id}", handlers.GetCollectionRecord(db))

		// FCM token registration
		r.Post("/fcm/token", handlers.RegisterFCMToken(db))

		// Collector workflow
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleCollector))

			r.Post("/routes/{id}/start", handlers.StartRouteHandler(db, wsHub))
			r.Post("/routes/{id}/auto-close", handlers.AutoCloseRouteHandler(db, policy, wsHub, fcmService))
			r.Post("/stops/{id}/start", handlers.StartStopHandler(db))
			r.Post("/stops/{id}/complete", handlers.CompleteStopHandler(db, policy, wsHub))
			r.Patch("/stops/{id}/status", handlers.ResolveStopHandler(db, wsHub))
		})

		// Supervisor planning
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleSupervisor))

			r.Post("/zones", handlers.CreateZone(db))
			r.Patch("/zones/{id}", handlers.UpdateZone(db))
			r.Post("/requests/on-demand/{id}/accept", handlers.AcceptOnDemandRequest(db))
			r.Post("/routes", handlers.CreateRoute(db, policy, fcmService))
			r.Patch("/routes/{id}/status", handlers.UpdateRouteStatusHandler(db, wsHub))
			r.Post("/routes/{id}/stops", handlers.AddStopHandler(db, policy))
		})

		// Admin
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Post("/users", handlers.CreateUser(db))
			r.Get("/users", handlers.GetUsers(db))
			r.Get("/users/{id}", handlers.GetUser(db))
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Printf("🚀 Server starting on http://localhost:%s", port)
	log.Println("═══════════════════════════════════════════════════════════════════")

	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("❌ Server failed to start: %v", err)
	}
}
