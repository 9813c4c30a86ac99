package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	convox "taskchat/agent/convo"
	gatewayx "taskchat/agent/gateway"
	orchestratorx "taskchat/agent/orchestrator"
	storex "taskchat/agent/store"
	configx "taskchat/pkg/config"
	_ "taskchat/pkg/logger/autoload"
	openrouterx "taskchat/pkg/openrouter"
	serverx "taskchat/server"
)

type appConfig struct {
	ProviderTimeout time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"30s"`
}

func main() {
	appCfg := configx.MustNew[appConfig]("CHAT")
	serverCfg := configx.MustNew[serverx.Config]("API")
	storeCfg := configx.MustNew[storex.Config]("DATABASE")
	openRouterCfg := configx.MustNew[openrouterx.Config]("OPENROUTER")
	toolsCfg := configx.MustNew[gatewayx.ClientConfig]("TOOLS")

	db := storex.MustOpen(*storeCfg)
	defer db.Close()

	tasks := storex.NewTaskStore(db)
	convos := storex.NewConversationStore(db)

	source, err := convox.NewReconstructor(convos, tasks)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build context reconstructor")
	}

	if openrouterx.NewClient(*openRouterCfg) == nil {
		log.Fatal().Msg("failed to initialize openrouter client")
	}

	chatModel, err := openRouterCfg.New(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build chat model")
	}

	tools, err := gatewayx.NewClient(*toolsCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build tool client")
	}

	orch, err := orchestratorx.New(source, chatModel, tools, orchestratorx.Config{
		ProviderTimeout: appCfg.ProviderTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build orchestrator")
	}

	identity, err := serverx.NewResolver(*serverCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build identity resolver")
	}

	srv, err := serverx.New(orch, tasks, convos, identity)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build server")
	}

	httpServer := &http.Server{
		Addr:         serverCfg.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  serverCfg.ReadTimeout,
		WriteTimeout: serverCfg.WriteTimeout,
	}

	log.Info().Str("addr", serverCfg.Addr).Msg("chat api listening")
	if err := httpServer.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("chat api stopped")
	}
}
