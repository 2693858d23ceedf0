package main

import (
	"fmt"
	"net/http"
	"time"

	"medicare/auth"
	"medicare/config"
	"medicare/db"
	"medicare/db/mongo"
	"medicare/db/postgres"
	"medicare/handlers"
	"medicare/repository"
	"medicare/routes"
)

func main() {
	// Load config from .env or config file
	cfg := config.LoadConfig()

	var conn db.DB
	var userRepo repository.UserRepository
	var appointmentRepo repository.AppointmentRepository
	var chatRepo repository.ChatRepository
	var dbName string

	switch cfg.DBType {
	case "postgres":
		db.RunMigrations(cfg.PostgresURL)

		pg := postgres.NewPostgresDB(cfg.PostgresURL)
		if err := pg.Connect(); err != nil {
			panic(err)
		}
		defer pg.Disconnect()

		conn = pg
		dbName = "postgres"
		userRepo = repository.NewPostgresUserRepo(pg.Conn)
		appointmentRepo = repository.NewPostgresAppointmentRepo(pg.Conn)
		chatRepo = repository.NewPostgresChatRepo(pg.Conn)

	case "mongo":
		mg := mongo.NewMongoDB(cfg.MongoURL)
		if err := mg.Connect(); err != nil {
			panic(err)
		}
		defer mg.Disconnect()

		conn = mg
		dbName = "medicare"
		userRepo = repository.NewMongoUserRepo(mg.Client)
		appointmentRepo = repository.NewMongoAppointmentRepo(mg.Client)
		chatRepo = repository.NewMongoChatRepo(mg.Client)

	default:
		panic("DB_TYPE not supported")
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	handlers.SetEnv(cfg.Env)

	// Handlers
	authHandler := &handlers.AuthHandler{Repo: userRepo, Tokens: tokens}
	appointmentHandler := &handlers.AppointmentHandler{Repo: appointmentRepo, Users: userRepo}
	chatHandler := &handlers.ChatHandler{Repo: chatRepo, Users: userRepo}
	pdfHandler := &handlers.PDFHandler{Repo: appointmentRepo, SavePath: cfg.PDFSavePath}
	healthHandler := &handlers.HealthHandler{DB: conn, DBName: dbName, Start: time.Now()}

	routes.SetupRoutes(tokens, authHandler, appointmentHandler, chatHandler, pdfHandler, healthHandler)

	port := cfg.Port
	fmt.Printf("Server running on port %s\n", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		panic(err)
	}
}
