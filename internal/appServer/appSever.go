// launching the server, storage, event publisher
package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ds124wfegd/imagehist/config"
	"github.com/ds124wfegd/imagehist/internal/database"
	"github.com/ds124wfegd/imagehist/internal/pkg/kafka"
	"github.com/ds124wfegd/imagehist/internal/pkg/processor"
	"github.com/ds124wfegd/imagehist/internal/pkg/rabbitMQ"
	"github.com/ds124wfegd/imagehist/internal/pkg/storage"
	"github.com/ds124wfegd/imagehist/internal/service"
	"github.com/ds124wfegd/imagehist/internal/transport"
	"github.com/gin-gonic/gin"

	"github.com/sirupsen/logrus"
)

const uploadsURL = "/uploads/"

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},           // ban on outdate TLS certificate
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags), // os.Stderr can be replaced with ElsasticSearch in the feature
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(new(logrus.JSONFormatter))
	logrus.SetOutput(os.Stdout)
	if cfg.Server.Mode == gin.DebugMode {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	// Создаем директорию если нужно
	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		logrus.Fatalf("cannot create upload dir %s: %s", cfg.Upload.Dir, err.Error())
	}

	charts, err := processor.NewChartRenderer(ChartOptions(cfg.Chart))
	if err != nil {
		logrus.Fatalf("invalid chart settings: %s", err.Error())
	}

	publisher, closePublisher := NewPublisher(cfg.Events)
	defer closePublisher()

	fileStorage := storage.NewFileStorage(cfg.Upload.Dir)
	imgRepo := database.NewImageRepository(fileStorage, cfg.Upload.AllowedExt)
	imgProcessor := processor.NewImageProcessor(charts)
	imgService := service.NewAnalysisService(imgRepo, imgProcessor, publisher, uploadsURL)
	imgHandler := transport.NewImageHandler(imgService, transport.Options{
		MaxBytes:    cfg.Upload.MaxBytes,
		AllowedExt:  cfg.Upload.AllowedExt,
		Timeout:     cfg.Server.Timeout,
		AppVersion:  cfg.Server.AppVersion,
		Environment: cfg.Server.Env,
		EventDriver: cfg.Events.Driver,
	})

	gin.SetMode(cfg.Server.Mode)

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(imgHandler)); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.WithFields(logrus.Fields{
		"addr":    net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		"version": cfg.Server.AppVersion,
		"events":  cfg.Events.Driver,
	}).Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}

// ChartOptions maps the chart section of the config onto renderer options.
func ChartOptions(cfg config.ChartConfig) processor.ChartOptions {
	opts := processor.ChartOptions{
		WidthInch:  cfg.WidthInch,
		HeightInch: cfg.HeightInch,
		Alpha:      cfg.Alpha,
		Gray:       cfg.GrayColor,
	}
	if len(cfg.Colors) == 3 {
		opts.Red, opts.Green, opts.Blue = cfg.Colors[0], cfg.Colors[1], cfg.Colors[2]
	}
	return opts
}

// NewPublisher picks the event transport named by cfg.Driver. A nil
// publisher disables events.
func NewPublisher(cfg config.EventsConfig) (service.EventPublisher, func()) {
	switch cfg.Driver {
	case "kafka":
		producer := kafka.NewProducer(cfg.Brokers, cfg.Topic)
		return producer, func() {
			if err := producer.Close(); err != nil {
				logrus.Errorf("kafka producer close: %v", err)
			}
		}
	case "rabbitmq":
		publisher, err := rabbitMQ.NewPublisher(rabbitMQ.RabbitMQConfig{URL: cfg.URL, QueueName: cfg.Queue})
		if err != nil {
			logrus.Warnf("RabbitMQ unavailable, events disabled: %v", err)
			return nil, func() {}
		}
		logrus.Infof("RabbitMQ publisher declared queue %s", cfg.Queue)
		return publisher, func() {
			if err := publisher.Close(); err != nil {
				logrus.Errorf("rabbitMQ publisher close: %v", err)
			}
		}
	default:
		logrus.Info("Event publishing disabled")
		return nil, func() {}
	}
}
