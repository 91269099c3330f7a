package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"haken/internal/domain/applog"
	"haken/internal/domain/assignment"
	"haken/internal/domain/client"
	"haken/internal/domain/company"
	"haken/internal/domain/contract"
	"haken/internal/domain/document"
	"haken/internal/domain/master"
	"haken/internal/domain/staff"
	"haken/internal/domain/teishokubi"
	"haken/internal/platform/blob"
	"haken/internal/platform/clock"
	"haken/internal/platform/config"
	"haken/internal/platform/db"
	"haken/internal/platform/pdf"
	assignmenthandler "haken/internal/transport/http/handlers/assignment"
	clienthandler "haken/internal/transport/http/handlers/client"
	contracthandler "haken/internal/transport/http/handlers/contract"
	masterhandler "haken/internal/transport/http/handlers/master"
	staffhandler "haken/internal/transport/http/handlers/staff"
	teishokubihandler "haken/internal/transport/http/handlers/teishokubi"
	"haken/internal/transport/http/middleware"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}

	companyStore := company.NewStore(pool)
	if cfg.RunSeed && cfg.SeedCompanyName != "" {
		err := companyStore.Seed(ctx, company.Company{
			Name:                    cfg.SeedCompanyName,
			CorporateNumber:         cfg.SeedCompanyCorporateNumber,
			Address:                 cfg.SeedCompanyAddress,
			PhoneNumber:             cfg.SeedCompanyPhoneNumber,
			HakenPermitNumber:       cfg.SeedCompanyPermitNumber,
			DispatchTreatmentMethod: cfg.SeedCompanyTreatmentMethod,
		})
		if err != nil {
			log.Fatalf("company seed failed: %v", err)
		}
	}

	renderer, err := pdf.NewRenderer(cfg.PDFFontName, cfg.PDFFontPath)
	if err != nil {
		log.Fatalf("pdf renderer init failed: %v", err)
	}
	blobs, err := blob.NewFSStore(cfg.BlobDir)
	if err != nil {
		log.Fatalf("blob store init failed: %v", err)
	}

	clientStore := client.NewStore(pool)
	staffStore := staff.NewStore(pool)
	masterStore := master.NewStore(pool)
	contractStore := contract.NewStore(pool)
	assignmentStore := assignment.NewStore(pool)
	teishokubiStore := teishokubi.NewStore(pool)
	auditStore := applog.NewStore(pool)

	composer := document.NewComposer(contractStore, clientStore, staffStore, masterStore, companyStore)
	contractSvc := contract.NewService(contractStore, clientStore, staffStore, masterStore, companyStore, composer, renderer, blobs, clock.System{})
	teishokubiSvc := teishokubi.NewService(teishokubiStore)
	assignmentSvc := assignment.NewService(assignmentStore, contractStore, clientStore, staffStore, teishokubiSvc)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		clienthandler.NewHandler(clientStore, cfg.JWTSecret).RegisterRoutes(r)
		staffhandler.NewHandler(staffStore).RegisterRoutes(r)
		masterhandler.NewHandler(masterStore).RegisterRoutes(r)
		contracthandler.NewHandler(contractSvc, composer, renderer, auditStore).RegisterRoutes(r)
		assignmenthandler.NewHandler(assignmentSvc, auditStore).RegisterRoutes(r)
		teishokubihandler.NewHandler(teishokubiSvc).RegisterRoutes(r)
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("haken server listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
