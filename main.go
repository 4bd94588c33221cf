package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/PBASC-Fred/fredai-action-server/action/advice"
	"github.com/PBASC-Fred/fredai-action-server/action/dispatch"
	"github.com/PBASC-Fred/fredai-action-server/action/faq"
	"github.com/PBASC-Fred/fredai-action-server/action/imagine"
	"github.com/PBASC-Fred/fredai-action-server/action/suggest"
	configx "github.com/PBASC-Fred/fredai-action-server/pkg/config"
	geminix "github.com/PBASC-Fred/fredai-action-server/pkg/gemini"
	logx "github.com/PBASC-Fred/fredai-action-server/pkg/logger"
	mailerx "github.com/PBASC-Fred/fredai-action-server/pkg/mailer"
	stabilityx "github.com/PBASC-Fred/fredai-action-server/pkg/stability"
	serverx "github.com/PBASC-Fred/fredai-action-server/server"
)

const serviceName = "fredai-action-server"

func main() {
	logCfg := configx.MustLoad[logx.Config]("LOG")
	logx.Init(*logCfg, serviceName)

	geminiCfg := configx.MustLoad[geminix.Config]("GEMINI")
	stabilityCfg := configx.MustLoad[stabilityx.Config]("STABILITY")
	mailCfg := configx.MustLoad[mailerx.Config]("MAIL")
	serverCfg := configx.MustLoad[serverx.Config]("SERVER")

	// Missing API keys and mail credentials are not startup faults: the
	// affected action detects them at call time and answers with its fallback.
	textClient := geminix.NewClient(*geminiCfg)
	imageClient := stabilityx.NewClient(*stabilityCfg)
	transport := mailerx.NewSMTPTransport(*mailCfg)

	dispatcher := dispatch.MustNew(
		advice.New(textClient),
		imagine.New(imageClient),
		faq.New(),
		suggest.New(transport, mailCfg.Address, mailCfg.Recipient),
	)

	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           serverx.NewHandler(dispatcher),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", serverCfg.Addr).Strs("actions", dispatcher.Names()).Msg("action server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	log.Info().Msg("action server stopped")
}
