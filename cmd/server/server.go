package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardanlabs/conf/v3"
	"github.com/irsalhamdi/course-market/api"
	"github.com/irsalhamdi/course-market/api/background"
	"github.com/irsalhamdi/course-market/config"
	"github.com/irsalhamdi/course-market/core/auth"
	"github.com/irsalhamdi/course-market/core/pending"
	"github.com/irsalhamdi/course-market/core/purchase"
	"github.com/irsalhamdi/course-market/database"
	"github.com/irsalhamdi/course-market/gateway"
	"github.com/irsalhamdi/course-market/rate"
	"github.com/plutov/paypal/v4"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if err := Run(log); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func Run(logger *logrus.Logger) error {
	const prefix = "GOVOD"
	var cfg config.Config
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	logger.Infof("starting server")
	defer logger.Info("shutdown complete")

	lw := logger.Writer()
	defer lw.Close()
	errLog := log.New(lw, "", 0)

	db, err := database.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to open db connection: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate the database: %w", err)
	}

	tokens, err := auth.NewTokens(cfg.Auth.SigningKey, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to build the token signer: %w", err)
	}

	bg := background.New(logger)

	pp, err := paypal.NewClient(
		cfg.Paypal.ClientID,
		cfg.Paypal.Secret,
		cfg.Paypal.URL,
	)
	if err != nil {
		return fmt.Errorf("failed to build the paypal client: %w", err)
	}

	if _, err = pp.GetAccessToken(context.TODO()); err != nil {
		return fmt.Errorf("failed to get the first paypal access token: %w", err)
	}

	purchases := purchase.NewService(db, gateway.NewPayPal(pp), gateway.SimulatedCards{}, bg, logger, purchase.Config{
		Currency:       cfg.Purchase.Currency,
		PendingTTL:     cfg.Purchase.PendingTTL,
		GatewayTimeout: cfg.Purchase.GatewayTimeout,
		FrontendURL:    cfg.Purchase.FrontendURL,
	})

	limiter := rate.NewLimiter(cfg.RateLimit.Burst, cfg.RateLimit.ClientExpiry, cfg.RateLimit.RPS)
	defer limiter.Stop()

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()

	sweeper := pending.Sweeper{
		DB:       db,
		Interval: cfg.Purchase.SweepInterval,
		Log:      logger.WithField("component", "pending-sweeper"),
	}
	bg.Go(func() { sweeper.Run(sweepCtx) })

	mux := api.APIMux(api.APIConfig{
		CorsOrigin: cfg.Cors.Origin,
		Log:        logger,
		DB:         db,
		Tokens:     tokens,
		Purchases:  purchases,
		Limiter:    limiter,
	})

	api := http.Server{
		Handler:      mux,
		Addr:         cfg.Web.Address,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     errLog,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Infof("starting api router at %s", api.Addr)
		serverErrors <- api.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Infof("shutting down: signal %s", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}

		stopSweep()
		if err := bg.Shutdown(ctx); err != nil {
			return fmt.Errorf("could not complete all background tasks: %w", err)
		}
	}
	return nil
}
