package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	gatewayx "taskchat/agent/gateway"
	storex "taskchat/agent/store"
	configx "taskchat/pkg/config"
	_ "taskchat/pkg/logger/autoload"
)

func main() {
	serverCfg := configx.MustNew[gatewayx.ServerConfig]("TOOLS")
	storeCfg := configx.MustNew[storex.Config]("DATABASE")

	db := storex.MustOpen(*storeCfg)
	defer db.Close()

	svc, err := gatewayx.NewService(storex.NewTaskStore(db))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build tool service")
	}

	log.Info().Str("addr", serverCfg.Addr).Msg("tool server listening")
	if err := http.ListenAndServe(serverCfg.Addr, gatewayx.NewHandler(svc)); err != nil {
		log.Fatal().Err(err).Msg("tool server stopped")
	}
}
