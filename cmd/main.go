package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/platewise/platewise/checkout"
	"github.com/platewise/platewise/config"
	"github.com/platewise/platewise/database"
	"github.com/platewise/platewise/events"
	"github.com/platewise/platewise/handlers"
	"github.com/platewise/platewise/server"
	"github.com/platewise/platewise/session"
)

const shutdownTimeOut = 10 * time.Second

func main() {
	config.Init()

	if err := database.ConnectAndMigrate(); err != nil {
		logrus.Panicf("failed to initialize database, error: %v", err)
	}
	logrus.Println("migration is successful")

	rdb := redis.NewClient(&redis.Options{Addr: config.RedisAddr()})

	var mailer session.Mailer = session.LogMailer{}
	if config.SMTPHost() != "" {
		mailer = &session.SMTPMailer{
			Host:     config.SMTPHost(),
			Port:     config.SMTPPort(),
			Username: config.SMTPUser(),
			Password: config.SMTPPass(),
			From:     config.SMTPFrom(),
		}
	}

	sessions := session.NewService(session.NewLinkStore(rdb), mailer, session.NewBus())
	publisher := events.NewPublisher(config.KafkaBrokers())
	checkouts := checkout.NewRegistry()
	h := handlers.New(sessions, checkouts, publisher)

	svr := server.SetupRoutes(h)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logrus.Infof("server listening on %s", config.ServerPort())
		if err := svr.Run(config.ServerPort()); err != nil {
			logrus.WithError(err).Error("server stopped")
		}
	}()

	<-done

	logrus.Info("shutting down...")
	if err := svr.Shutdown(shutdownTimeOut); err != nil {
		logrus.WithError(err).Error("failed to shut down server cleanly!")
	}
	checkouts.Shutdown()
	if err := publisher.Close(); err != nil {
		logrus.WithError(err).Error("failed to close event publisher!")
	}
	if err := rdb.Close(); err != nil {
		logrus.WithError(err).Error("failed to close redis connection!")
	}
	if err := database.ShutdownDatabase(); err != nil {
		logrus.WithError(err).Error("failed to close database connection!")
	}

	logrus.Info("system is shut ..zzz")
}
