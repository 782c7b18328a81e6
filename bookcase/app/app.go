package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookcase/bookcase/config"
	"github.com/Astemirdum/bookcase/bookcase/internal/handler"
	"github.com/Astemirdum/bookcase/bookcase/internal/repository"
	"github.com/Astemirdum/bookcase/bookcase/internal/server"
	authsvc "github.com/Astemirdum/bookcase/bookcase/internal/service/auth"
	"github.com/Astemirdum/bookcase/bookcase/internal/service/catalog"
	"github.com/Astemirdum/bookcase/bookcase/internal/service/library"
	"github.com/Astemirdum/bookcase/bookcase/internal/service/profile"
	"github.com/Astemirdum/bookcase/bookcase/internal/service/rating"
	"github.com/Astemirdum/bookcase/bookcase/internal/service/readinglog"
	"github.com/Astemirdum/bookcase/bookcase/internal/service/stats"
	"github.com/Astemirdum/bookcase/bookcase/migrations"
	"github.com/Astemirdum/bookcase/pkg/auth"
	"github.com/Astemirdum/bookcase/pkg/kafka"
	"github.com/Astemirdum/bookcase/pkg/logger"
	"github.com/Astemirdum/bookcase/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "bookcase")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	loc := cfg.Stats.Location()
	svc := handler.Services{
		Catalog:    catalog.NewService(log, cfg.Catalog),
		Library:    library.NewService(repo, log),
		Rating:     rating.NewService(repo, repo, log),
		ReadingLog: readinglog.NewService(repo, repo, loc, log),
		Stats:      stats.NewService(repo, loc, log),
		Auth:       authsvc.NewService(repo, cfg.Registration.Password, log),
		Profile:    profile.NewService(repo, log),
	}

	var producer sarama.SyncProducer
	if cfg.Kafka.Enabled {
		if err = kafka.CreateTopics(cfg.Kafka); err != nil {
			log.Error("kafka.CreateTopics", zap.Error(err))
		}
		if producer, err = kafka.NewSyncProducer(cfg.Kafka); err != nil {
			log.DPanic("kafka.NewSyncProducer", zap.Error(err))
		}
	}

	h := handler.New(svc, auth.NewManager(cfg.Session), handler.NewActivity(producer, cfg.Kafka.Topic, log), cfg.Server, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	if producer != nil {
		if err = producer.Close(); err != nil {
			log.Error("producer.Close", zap.Error(err))
		}
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
