package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/NobuoKiyota/HTML-SHOOTER/internal/game"
	"github.com/NobuoKiyota/HTML-SHOOTER/internal/logger"
	"github.com/sirupsen/logrus"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	clientDir := flag.String("client", "", "Path to client directory (default: ../client)")
	dbPath := flag.String("db", "shooter.db", "SQLite database path")
	balancePath := flag.String("balance", "", "Balance tables YAML (default: embedded)")
	publicURL := flag.String("public-url", "", "Base URL phones use to reach this server (default: request host)")
	flag.Parse()

	logger.Init()
	log := logger.Log

	if *clientDir == "" {
		exe, _ := os.Executable()
		*clientDir = filepath.Join(filepath.Dir(exe), "..", "client")
		// Fallback for development
		if _, err := os.Stat(*clientDir); os.IsNotExist(err) {
			*clientDir = "../client"
		}
	}

	var cat *game.Catalog
	var err error
	if *balancePath != "" {
		cat, err = game.LoadCatalog(*balancePath)
	} else {
		cat, err = game.DefaultCatalog()
	}
	if err != nil {
		log.WithError(err).Fatal("load balance tables")
	}

	db, err := OpenDB(*dbPath)
	if err != nil {
		log.WithError(err).WithField("path", *dbPath).Fatal("open database")
	}
	defer db.Close()

	analytics := NewAnalytics(db)
	hub := NewHub(cat, db, analytics)
	hub.publicURL = *publicURL
	go hub.Run()

	mux := SetupRoutes(hub, *clientDir)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		log.WithFields(logrus.Fields{"addr": *addr, "client": *clientDir, "db": *dbPath}).Info("server starting")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.WithError(err).Fatal("ListenAndServe")
		}
	}()

	<-stop
	log.Info("shutting down")
	server.Close()
	hub.sessions.StopAll()
	analytics.Stop()
}
