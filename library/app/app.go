package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/Astemirdum/book-management/library/config"
	libcron "github.com/Astemirdum/book-management/library/internal/cron"
	"github.com/Astemirdum/book-management/library/internal/handler"
	"github.com/Astemirdum/book-management/library/internal/repository"
	"github.com/Astemirdum/book-management/library/internal/server"
	"github.com/Astemirdum/book-management/library/internal/service"
	"github.com/Astemirdum/book-management/library/migrations"
	"github.com/Astemirdum/book-management/pkg/kafka"
	"github.com/Astemirdum/book-management/pkg/logger"
	"github.com/Astemirdum/book-management/pkg/postgres"
)

func Run(cfg config.Config) error {
	log := logger.NewLogger(cfg.Log, "library")

	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %v", err)
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo %v", err)
	}

	var producer sarama.SyncProducer
	if cfg.Kafka.Enabled() {
		if err := kafka.CreateTopics(cfg.Kafka); err != nil {
			log.Error("create topics", zap.Error(err))
		}
		if producer, err = kafka.NewSyncProducer(cfg.Kafka); err != nil {
			return fmt.Errorf("kafka.NewSyncProducer %v", err)
		}
	}

	svc := service.NewService(repo, producer, log)

	sweeper := libcron.NewSweeper(cfg.Uploads.Dir, cfg.Uploads.TTL, log)
	if err := sweeper.Start(); err != nil {
		return fmt.Errorf("sweeper %v", err)
	}

	h := handler.New(svc, cfg.Uploads.Dir, log)
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
		log.Error("srv.Stop", zap.Error(err))
	}
	sweeper.Stop()
	if producer != nil {
		if err = producer.Close(); err != nil {
			log.Error("producer.Close", zap.Error(err))
		}
	}
	db.Close()
	log.Info("Graceful shutdown finished")
	return nil
}
