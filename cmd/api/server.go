package main

import (
	"crypto/tls"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	mw "rent_tracker/internal/api/middlewares"
	"rent_tracker/internal/api/routers"
	"rent_tracker/internal/ledger"
	"rent_tracker/internal/repositories/sqlconnect"
	"rent_tracker/internal/session"
	cronjobs "rent_tracker/pkg/cron"
	"rent_tracker/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	utils.InitLogger()

	if err := sqlconnect.ConnectDb(); err != nil {
		utils.Logger.Fatal("DB connection failed: ", err)
	}

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}
	if err := sqlconnect.RunMigrations(migrationsPath); err != nil {
		utils.Logger.Fatal("migrations failed: ", err)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		utils.Logger.Fatal("JWT_SECRET must be set")
	}

	// Fresh epoch per process start: every token issued by a previous run is
	// rejected as stale, no revocation list needed.
	authority := session.New(jwtSecret)
	utils.Logger.Infof("Session epoch for this run: %d", authority.Epoch())

	engine := ledger.New(sqlconnect.DB)

	scheduler := cronjobs.StartCronJob(sqlconnect.DB)
	defer scheduler.Stop()

	router := routers.MainRouter(sqlconnect.DB, engine, authority)

	jwtMiddleware := mw.MiddlewaresExcludePaths(mw.JWTMiddleware(authority), "/users/signup", "/users/login")

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{os.Getenv("FRONTEND_ORIGIN")},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	secureMux := corsHandler.Handler(jwtMiddleware(mw.SecurityHeaders(router)))

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = ":5000"
	}

	cert := os.Getenv("CERT_FILE")
	key := os.Getenv("KEY_FILE")

	server := &http.Server{
		Addr:    port,
		Handler: secureMux,
		TLSConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	utils.Logger.Info("Server is running on port ", port)

	var err error
	if cert != "" && key != "" {
		err = server.ListenAndServeTLS(cert, key)
	} else {
		err = server.ListenAndServe()
	}
	if err != nil {
		log.Fatalln("Error starting the server", err)
	}
}
