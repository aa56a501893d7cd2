package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/service"
	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/store"
	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/store/memory"
	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/store/sqlite"
	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/config"
	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/db"
	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/grpcapi"
	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/httpapi"
	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/platform/otel"
)

type stores struct {
	records  store.RecordStore
	events   store.ChangeEventStore
	roster   store.EmployeeStore
	holidays store.HolidayStore
	close    func()
}

func main() {
	_ = godotenv.Load()
	logger := log.New(os.Stdout, "attendance-server ", log.LstdFlags|log.LUTC)

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	pol, err := cfg.Policy()
	if err != nil {
		logger.Fatalf("policy: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, cfg.ServiceName, cfg.OTelEndpoint)
	if err != nil {
		logger.Fatalf("otel: %v", err)
	}

	st, err := openStores(ctx, cfg)
	if err != nil {
		logger.Fatalf("stores: %v", err)
	}
	defer st.close()

	// Services
	registry := service.NewEmployeeRegistry(st.roster)
	clockSvc := service.NewClockService(st.records, st.events, registry, pol, nil, logger)
	aggregator := service.NewAggregator(st.records, st.holidays, registry, pol, nil)
	sweeper := service.NewAutoClockoutSweeper(st.records, st.events, pol, nil,
		service.SweeperConfig{Interval: cfg.SweepInterval}, logger)

	sweeper.Start(ctx)
	defer sweeper.Stop()

	// HTTP
	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:       logger,
		Addr:         cfg.HTTPAddr,
		ClockService: clockSvc,
		Aggregator:   aggregator,
		Holidays:     st.holidays,
		JWTSecret:    cfg.JWTSecret,
		RecentLimit:  cfg.RecentLimit,
	})

	go func() {
		logger.Printf("listening on %s (store=%s tz=%s)", cfg.HTTPAddr, cfg.Store, pol.Location)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("server error: %v", err)
			stop()
		}
	}()

	// gRPC
	grpcDone := make(chan struct{})
	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			logger.Fatalf("grpc listen: %v", err)
		}
		grpcSrv := grpcapi.NewServer(grpcapi.Dependencies{
			Logger:       logger,
			ClockService: clockSvc,
			Aggregator:   aggregator,
			JWTSecret:    cfg.JWTSecret,
		})
		go func() {
			defer close(grpcDone)
			if err := grpcSrv.Serve(ctx, lis); err != nil {
				logger.Printf("grpc error: %v", err)
				stop()
			}
		}()
	} else {
		close(grpcDone)
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	<-grpcDone
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Printf("otel shutdown: %v", err)
	}
}

func openStores(ctx context.Context, cfg config.Config) (stores, error) {
	if cfg.Store == "memory" {
		return stores{
			records:  memory.New(),
			events:   memory.NewChangeEventStore(),
			roster:   memory.NewEmployeeStore(cfg.KnownEmployees),
			holidays: memory.NewHolidayStore(cfg.Holidays),
			close:    func() {},
		}, nil
	}

	sqlDB, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env})
	if err != nil {
		return stores{}, err
	}
	if err := db.SeedDev(ctx, sqlDB, db.SeedDevOptions{
		KnownEmployees: cfg.KnownEmployees,
		Holidays:       cfg.Holidays,
	}); err != nil {
		_ = sqlDB.Close()
		return stores{}, err
	}

	writer := db.NewWorker(sqlDB)
	return stores{
		records:  sqlite.NewRecordStore(sqlDB, writer),
		events:   sqlite.NewChangeEventStore(sqlDB, writer),
		roster:   sqlite.NewEmployeeStore(sqlDB, writer),
		holidays: sqlite.NewHolidayStore(sqlDB, writer),
		close: func() {
			writer.Close()
			_ = sqlDB.Close()
		},
	}, nil
}
