package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dinopoll/dinopoll/src/chat"
	"github.com/dinopoll/dinopoll/src/config"
	"github.com/dinopoll/dinopoll/src/data"
	"github.com/dinopoll/dinopoll/src/poll"
	"github.com/dinopoll/dinopoll/src/webserver"
)

func main() {
	cfg := config.Load()
	if cfg.SlackToken == "" {
		log.Fatal("SLACK_TOKEN is not set")
	}
	if cfg.SlackSigningSecret == "" {
		log.Fatal("SLACK_SIGNING_SECRET is not set")
	}

	db := data.MustMySQL(cfg.MySQLDSN)
	if err := data.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	rdb := data.MustRedis(cfg.RedisURL)

	client := chat.New(cfg.SlackToken)
	store := poll.NewGormStore(db)
	guard := data.NewGuard(rdb)
	svc := poll.NewService(store, client, guard)

	router := webserver.New(cfg, webserver.Deps{
		Service: svc,
		Store:   store,
		Slack:   client,
		Guard:   guard,
	})

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()

	log.Printf("dinopoll listening on %s", cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)
}
