package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/trezcool/revisioncam/apps/api/echo"
	"github.com/trezcool/revisioncam/core"
	"github.com/trezcool/revisioncam/core/auth"
	"github.com/trezcool/revisioncam/core/qcm"
	"github.com/trezcool/revisioncam/core/study"
	logsvc "github.com/trezcool/revisioncam/services/logger"
	"github.com/trezcool/revisioncam/storage/inmem"
)

var purgeInterval = time.Minute

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

	storeLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "STORE : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	storeLogger.Enable(!conf.Debug)

	// set up auth
	clock := auth.SystemClock
	policy := auth.NewCredentialPolicy(conf.Auth.Username, conf.Auth.PasswordHash)
	if !policy.Enabled() {
		logger.Warn(fmt.Sprintf("no password hash configured for %q: every login will be refused", conf.Auth.Username))
	}
	sessions := auth.NewManager(policy, clock, conf.Auth.SessionDuration)
	tokens := auth.NewTokenCodec(conf.SecretKey, conf.Auth.TokenIssuer, clock)

	// set up services
	repo := inmem.NewWorkspaceRepository(inmem.Open())
	studySvc := study.NewService(
		repo,
		study.Options{
			LivePreview: conf.Import.LivePreview,
			MaxFileSize: conf.Import.MaxFileSize,
			Source:      qcm.NewRandomSource(),
		},
		clock,
	)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	purged := expvar.NewInt("workspaces_purged")

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Purge idle workspaces
	//
	// A workspace left alone longer than a session can no longer be reached.

	purgeCtx, stopPurge := context.WithCancel(context.Background())
	defer stopPurge()
	go func() {
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-purgeCtx.Done():
				return
			case <-ticker.C:
				n, err := studySvc.PurgeIdle(conf.Auth.SessionDuration)
				if err != nil {
					storeLogger.Error(fmt.Sprintf("purging idle workspaces: %v", err), err)
					continue
				}
				if n > 0 {
					purged.Add(int64(n))
					storeLogger.Debug(fmt.Sprintf("purged %d idle workspace(s)", n))
				}
			}
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			Sessions:   sessions,
			Tokens:     tokens,
			StudySvc:   studySvc,
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
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
