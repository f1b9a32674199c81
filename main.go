package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"nobiko-server/config"
	"nobiko-server/game"
	"nobiko-server/protocol"
	"nobiko-server/room"
	"nobiko-server/server"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	codec, err := protocol.NewCodec(cfg.Codec)
	if err != nil {
		log.Fatalf("codec: %v", err)
	}

	world := game.NewWorld(cfg.Tuning)
	rm := room.New(world, codec, cfg.Room)
	go rm.Run(ctx)

	srv := server.New(ctx, rm.Inbox, codec, cfg.IPCooldown)
	httpSrv := &http.Server{
		Addr: cfg.Addr,
		Handler: server.NewRouter(srv, server.RouterOptions{
			StaticDir:   cfg.StaticDir,
			WSPath:      cfg.WSPath,
			CORSOrigins: cfg.CORSOrigins,
		}),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			log.Fatalf("grpc listen: %v", err)
		}
		gs, hs := server.NewHealthServer()
		go func() {
			log.Printf("grpc health listening on %s", cfg.GRPCAddr)
			if err := gs.Serve(lis); err != nil {
				log.Printf("grpc server error: %v", err)
			}
		}()
		go func() {
			<-ctx.Done()
			hs.Shutdown()
			gs.GracefulStop()
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Printf("http shutdown: %v", err)
		}
	}()

	log.Printf("server listening on %s (codec=%s, ws=%s)", cfg.Addr, codec.Name(), cfg.WSPath)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
	log.Println("server stopped")
}
