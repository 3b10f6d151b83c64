package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/trezcool/masomo-landing/apps/api/echo"
	"github.com/trezcool/masomo-landing/core"
	"github.com/trezcool/masomo-landing/core/flowdemo"
	"github.com/trezcool/masomo-landing/core/lead"
	emailsvc "github.com/trezcool/masomo-landing/services/email"
	logsvc "github.com/trezcool/masomo-landing/services/logger"
	inmemdb "github.com/trezcool/masomo-landing/storage/database/inmem"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)
	defer logger.Flush()

	// set up content
	var content *flowdemo.Catalog
	if conf.Demo.ContentFile != "" {
		var err error
		if content, err = flowdemo.LoadContentFile(conf.Demo.ContentFile); err != nil {
			logger.Fatal(fmt.Sprintf("loading demo content: %v", err), err)
		}
	} else {
		content = flowdemo.DefaultContent()
	}

	registry, err := flowdemo.NewRegistry(
		content,
		flowdemo.Options{
			AutoplayInterval: conf.Demo.AutoplayInterval,
			PulseDuration:    conf.Demo.PulseDuration,
		},
		conf.Demo.SessionTTL,
		logger,
	)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up demo registry: %v", err), err)
	}
	defer registry.Close()

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go registry.Run(sweepCtx, conf.Demo.SweepInterval)

	// set up services
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	flowdemo.RegisterValidators(validate, translator)

	db := inmemdb.Open()
	mailSvc := emailsvc.NewConsoleService(conf, logger)
	defer mailSvc.Wait()

	leadSvc, err := lead.NewService(inmemdb.NewLeadRepository(db), mailSvc, validate, logger, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up lead service: %v", err), err)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	core.ParseEmailTemplates(conf.Debug, logger)

	if conf.Admin.PasswordHash == "" {
		logger.Warn("admin password hash is not set: admin endpoints are locked")
	}

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.Publish("demo_sessions", expvar.Func(func() interface{} { return registry.Len() }))

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugAddress, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			Content:    content,
			Registry:   registry,
			LeadSvc:    leadSvc,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
