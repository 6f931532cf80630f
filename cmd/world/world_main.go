package main

import (
	"Arcanus/internal/shared/logs"
	"Arcanus/internal/shared/serverconfig"
	"Arcanus/internal/shared/session"
	transporthttp "Arcanus/internal/shared/transport/http"
	"Arcanus/internal/shared/transport/ws"
	worldactor "Arcanus/internal/world/actor"
	"Arcanus/internal/world/actors"
	"Arcanus/internal/world/entity"
	"Arcanus/internal/world/infra/connections"
	"Arcanus/internal/world/infra/rules"
	"Arcanus/internal/world/interfaces"
	"Arcanus/internal/world/interfaces/handler"
	"Arcanus/internal/world/service/port"
	"Arcanus/modules/kit/logx"
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultTileType = entity.TileTypeID("TT_GRASS")

func main() {
	serverconfig.Load()
	logs.Init("world", serverconfig.Conf.Log)
	defer logs.Sync()
	logs.Info("conf", zap.Any("conf", serverconfig.Conf))

	gameConf := serverconfig.Conf.Game
	ruleBook, err := rules.Load(gameConf.RulesFile)
	if err != nil {
		logs.Fatal("load rules failed", zap.String("path", gameConf.RulesFile), zap.Error(err))
	}

	httpConf := serverconfig.Conf.HTTPServer
	host := httpConf.Host
	if host == "" {
		host = "0.0.0.0"
	}
	addr := fmt.Sprintf("%s:%d", host, httpConf.Port)

	baseLogger := logx.NewZapLogger(logs.Logger())
	sessMgr := session.NewSessMgr()

	rt := worldactor.NewRuntime(actors.Deps{
		Rules: ruleBook,
		Stats: ruleBook,
		Connections: func(id entity.SessionID) port.Connections {
			return connections.New(sessMgr, id)
		},
		Defaults: actors.Defaults{
			Coords:      gameConf.Map,
			Settings:    gameConf.FogOfWar,
			TileType:    defaultTileType,
			MaxMapCells: gameConf.MaxMapCells,
		},
		Log: baseLogger.Named("session"),
	}, gameConf.AskTimeout)
	defer rt.Shutdown()

	worldModule := interfaces.New(rt, sessMgr, baseLogger, httpConf.DevToken)

	wsRouter := ws.NewRouter(baseLogger.Named("ws"))
	wsModules := []ws.Registrar{
		worldModule,
	}
	for _, m := range wsModules {
		m.WsRegister(wsRouter)
	}

	httpServer := transporthttp.NewHttpServer(addr, nil, baseLogger.Named("http"))
	httpModules := []transporthttp.Registrar{
		worldModule,
	}
	for _, m := range httpModules {
		m.HttpRegister(httpServer.Group())
	}

	wsServer := ws.NewServer(wsRouter, baseLogger,
		ws.WithAuthenticator(handler.Authenticate),
		ws.WithOnOpen(worldModule.OnOpen),
		ws.WithSendQueue(httpConf.SendQueue),
	)
	httpServer.Engine().GET("/ws", gin.WrapH(wsServer))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logs.Info("world server listening", zap.String("addr", addr))
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("world server start failed: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		if err != nil {
			logs.Error("服务异常退出", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
}
