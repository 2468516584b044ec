package cmd

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/vibast-solutions/ms-go-mailer/app/controller"
	"github.com/vibast-solutions/ms-go-mailer/app/gate"
	"github.com/vibast-solutions/ms-go-mailer/app/service"
	"github.com/vibast-solutions/ms-go-mailer/app/transport"
	"github.com/vibast-solutions/ms-go-mailer/config"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  "Start the HTTP (Echo) server for the mail relay service.",
	Run:   runServe,
}

// init registers the serve command.
func init() {
	rootCmd.AddCommand(serveCmd)
}

// runServe wires dependencies and starts the HTTP server.
func runServe(_ *cobra.Command, _ []string) {
	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	mailer, simpleMailer, err := buildMailers(cfg)
	if err != nil {
		log.Fatalf("Failed to build mail transport: %v", err)
	}

	sendGate := gate.New()
	mailService := service.NewMailService(sendGate, mailer, simpleMailer, log)
	mailController := controller.NewMailController(mailService, cfg.HTTPPort)

	e := setupHTTPServer(mailController)

	go func() {
		httpAddr := net.JoinHostPort(cfg.HTTPHost, cfg.HTTPPort)
		log.Infof("Starting HTTP server on %s", httpAddr)
		if err := e.Start(httpAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warnf("HTTP shutdown error: %v", err)
	}

	log.Info("Server stopped")
}

// setupHTTPServer configures the Echo HTTP server and routes.
func setupHTTPServer(mailController *controller.MailController) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	e.GET("/api", mailController.APIIndex)
	e.GET("/status", mailController.Status)
	e.GET("/health", mailController.Health)
	e.GET("/sending-status", mailController.SendingStatus)
	e.POST("/stop-sending", mailController.StopSending)
	e.POST("/send-gmail", mailController.Send)
	e.POST("/send-gmail-simple", mailController.SendSimple)

	e.RouteNotFound("/*", mailController.NotFound)

	return e
}

// buildMailers returns the strict and certificate-relaxed transport
// profiles for the configured provider.
func buildMailers(cfg *config.Config) (transport.Mailer, transport.Mailer, error) {
	switch strings.ToLower(cfg.EmailProvider) {
	case "", "smtp":
		strict := transport.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort)
		relaxed := transport.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, transport.WithInsecureTLS())
		return strict, relaxed, nil
	case "ses":
		opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
		if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
			opts = append(opts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
			))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
		if err != nil {
			return nil, nil, err
		}
		mailer := transport.NewSESMailer(awsCfg, cfg.SESSourceEmail)
		return mailer, mailer, nil
	case "noop":
		mailer := transport.NewNoopMailer()
		return mailer, mailer, nil
	default:
		return nil, nil, fmt.Errorf("unsupported EMAIL_PROVIDER: %s", cfg.EmailProvider)
	}
}
