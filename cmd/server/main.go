package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/wrenchworks/repairshop-backend/internal/config"
	"github.com/wrenchworks/repairshop-backend/internal/controller"
	"github.com/wrenchworks/repairshop-backend/internal/db"
	"github.com/wrenchworks/repairshop-backend/internal/logger"
	"github.com/wrenchworks/repairshop-backend/internal/middleware"
	"github.com/wrenchworks/repairshop-backend/internal/queue"
	"github.com/wrenchworks/repairshop-backend/internal/repository"
	"github.com/wrenchworks/repairshop-backend/internal/service"
	"github.com/wrenchworks/repairshop-backend/internal/telemetry"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}

	cfg := config.LoadEnv()

	zlog, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	conn, err := db.Open(cfg.Postgres)
	if err != nil {
		zlog.Fatal("database unavailable", zap.Error(err))
	}
	defer conn.Close()

	sink := telemetry.NewZapSink(zlog, "server")

	customerRepo := &repository.CustomerRepository{DB: conn}
	ticketRepo := &repository.TicketRepository{DB: conn}
	notificationRepo := &repository.NotificationRepository{DB: conn}

	// QUEUE_DRIVER=amqp hands delivery to cmd/worker; the default keeps
	// everything in one binary for dev.
	var q queue.Queue
	if os.Getenv("QUEUE_DRIVER") == "amqp" {
		q = queue.NewAmqpQueue(cfg.Queue.URL)
	} else {
		mem := queue.NewInMemoryQueue()
		notifier := service.NewNotifier(notificationRepo, nil)
		queue.StartNotificationSubscriber(mem, cfg.Queue.QueueName, notifier)
		q = mem
	}

	customerService := &service.CustomerService{
		CustomerRepo: customerRepo,
	}
	ticketService := &service.TicketService{
		TicketRepo:       ticketRepo,
		CustomerRepo:     customerRepo,
		NotificationRepo: notificationRepo,
		Queue:            q,
		Topic:            cfg.Queue.QueueName,
	}

	customerController := &controller.CustomerController{
		CustomerService: customerService,
		Telemetry:       sink,
	}
	ticketController := &controller.TicketController{
		TicketService: ticketService,
		Telemetry:     sink,
	}

	r := chi.NewRouter()
	r.Use(middleware.SessionGate(cfg.Auth))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/login", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"sign in with the company identity provider to obtain a session token"}`))
	})

	r.Route("/api", func(r chi.Router) {
		// Customer routes; writes are manager-only
		r.Get("/customers", customerController.ListCustomers)
		r.Get("/customers/form", customerController.CustomerForm)
		r.Get("/customers/{id}", customerController.GetCustomer)
		r.With(middleware.RequireRole(middleware.RoleManager)).
			Post("/customers", customerController.CreateCustomer)
		r.With(middleware.RequireRole(middleware.RoleManager)).
			Put("/customers/{id}", customerController.UpdateCustomer)

		// Ticket routes
		r.Get("/tickets", ticketController.ListTickets)
		r.Get("/tickets/form", ticketController.TicketForm)
		r.Get("/tickets/{id}", ticketController.GetTicket)
		r.Post("/tickets", ticketController.CreateTicket)
		r.Put("/tickets/{id}", ticketController.UpdateTicket)
		r.Patch("/tickets/{id}/complete", ticketController.CompleteTicket)
	})

	zlog.Info("server running", zap.String("addr", cfg.Server.Addr))
	zlog.Fatal("server stopped", zap.Error(http.ListenAndServe(cfg.Server.Addr, r)))
}
