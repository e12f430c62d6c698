// Command plugin runs the plugin core against an in-process stub backend
// and a scripted embedded frame. It exists for local development: the real
// deployment embeds the packages in a CRM iframe host, which cannot be
// driven from a terminal.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/workline/docspace-crm-plugin/backend"
	"github.com/workline/docspace-crm-plugin/docspace"
	"github.com/workline/docspace-crm-plugin/internal/config"
	"github.com/workline/docspace-crm-plugin/room"
	"github.com/workline/docspace-crm-plugin/session"
	"github.com/workline/docspace-crm-plugin/token"
)

// devSigningSecret signs the stub host's tokens; the stub backend verifies
// them with the same value. Development only.
const devSigningSecret = "dev-plugin-secret"

const (
	devDealID    = int64(1001)
	devDealTitle = "Dev deal"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("plugin harness failed")
	}
	log.Info().Msg("plugin harness stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	setupLogging(c)
	displayAppName(c.GetAppName())

	stub := newStubBackend(devSigningSecret)
	go func() {
		if err := stub.Listen(c.GetPort()); err != nil {
			log.Error().Err(err).Msg("stub backend stopped")
		}
	}()

	host := newDevHost(devSigningSecret)
	tokens := token.NewProvider(host)
	api := backend.New(c.GetBackendURL(), tokens,
		backend.WithLogger(log.Logger))

	sess := session.New(host, api, session.WithLogger(log.Logger))

	// The stub backend needs a beat to start listening.
	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess.Bootstrap(ctx)
	log.Info().
		Stringer("error_kind", sess.Error()).
		Bool("has_user", sess.User() != nil).
		Msg("session bootstrapped")

	frame := newDevFrame()
	frameConfig := docspace.NewFrameConfig(c, "")
	reconciler := room.NewReconciler(sess, api, host, frame, devDealID, devDealTitle,
		room.WithLogger(log.Logger),
		room.WithFrameConfig(frameConfig))
	go reconciler.Run(ctx)

	frame.playStartupEvents()
	time.Sleep(200 * time.Millisecond)

	mounted := reconciler.FrameConfig()
	log.Info().
		Stringer("phase", reconciler.Phase()).
		Str("room_id", mounted.RoomID).
		Str("locale", mounted.Locale).
		Str("theme", mounted.Theme).
		Msg("reconciliation settled")

	waitForStopSignal()
	cancel()
	return stub.Shutdown()
}

func setupLogging(c config.Config) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func displayAppName(appName string) {
	banner := figure.NewFigure(appName, "", true)
	banner.Print()
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}
