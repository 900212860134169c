package main

import (
	"context"
	"log"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/repository"
	"github.com/noah-isme/timetable-api/internal/service"
	"github.com/noah-isme/timetable-api/pkg/config"
	"github.com/noah-isme/timetable-api/pkg/database"
	"github.com/noah-isme/timetable-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	seed := cfg.Seed.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	bootstrap := service.NewBootstrapService(
		repository.NewUserRepository(db),
		repository.NewTeacherRepository(db),
		repository.NewSubjectRepository(db),
		repository.NewRoomRepository(db),
		repository.NewClassRepository(db),
		repository.NewTimeSlotRepository(db),
		repository.NewTimetableRepository(db),
		rng,
		logr,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := bootstrap.Run(ctx, cfg.Seed); err != nil {
		logr.Fatal("seeding failed", zap.Error(err))
	}
	logr.Info("seeding complete", zap.String("admin", cfg.Seed.AdminEmail), zap.Int64("seed", seed))
}
