package main

import (
	"context"
	"net/http"
	"time"

	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/api"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/constants"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/engine"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/leveling"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/logging"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/loot"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/pve"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/pvp"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/random"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/reward"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	env := parseEnvOrExit()
	cfg := loadConfigOrExit(env.ConfigPath)
	repo := createRepositoryOrExit(env.DBPath, cfg.ItemCatalog)

	// Sessions resolve rounds concurrently; the shared generator must be
	// safe across them.
	rng := random.NewLocked(time.Now().UnixNano())
	lootGen := loot.NewGenerator(cfg.LootTables, rng)
	leveler := leveling.NewService(repo, cfg.LevelExp)
	rewards := reward.NewApplier(repo, lootGen, leveler)

	hub := ws.NewHub()
	pvpSvc := pvp.NewService(repo, rewards, hub, cfg.PvPGoldReward, env.ActionTimeout, env.QueueTTL)
	pveSvc := pve.NewService(repo, rewards, engine.NewMonsterPolicy(rng), cfg.Dungeons, hub, rng)

	handler := api.NewBattleHandler(repo, pveSvc, pvpSvc, cfg.Dungeons)
	wsHandler := ws.NewHandler(hub, pvpSvc)

	router := gin.Default()
	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.GET(constants.RouteDungeons, handler.ListDungeons)
		apiRoutes.GET(constants.RouteCharacter, handler.GetCharacter)
		apiRoutes.GET(constants.RouteBattleLogs, handler.GetBattleHistory)
		apiRoutes.GET(constants.RouteItem, handler.GetItem)

		apiRoutes.POST(constants.RouteBattles, handler.StartBattle)
		apiRoutes.GET(constants.RouteBattleByID, handler.GetBattle)
		apiRoutes.POST(constants.RouteBattleRound, handler.SubmitRound)

		apiRoutes.POST(constants.RouteQueueJoin, handler.JoinQueue)
		apiRoutes.DELETE(constants.RouteQueueLeave, handler.LeaveQueue)
		apiRoutes.GET(constants.RouteMatchByID, handler.GetMatch)
		apiRoutes.POST(constants.RouteMatchActions, handler.SubmitMatchActions)
	}
	router.GET(constants.RouteWebsocket, gin.WrapH(wsHandler))

	srv := &http.Server{Addr: env.ListenAddr, Handler: router}
	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		logging.Info("server started", logging.Fields{constants.LogFieldAddr: env.ListenAddr})
		return srv.ListenAndServe()
	})
	g.Go(func() error {
		runSweepers(ctx, pvpSvc, env.SweepInterval)
		return nil
	})
	if err := g.Wait(); err != nil {
		logging.Fatal("server stopped", err, nil)
	}
}
