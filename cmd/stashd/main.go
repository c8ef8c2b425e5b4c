// Copyright 2026 RGB Protocol
//
// stashd entry point

// Command stashd runs the stash service: the content-addressed store of
// schemata, geneses, and transitions, and the consignment engine built on
// top of it.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rgbprotocol/rgbd/pkg/config"
	"github.com/rgbprotocol/rgbd/pkg/kvdb"
	"github.com/rgbprotocol/rgbd/pkg/stash"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger := log.New(os.Stdout, "[stashd] ", log.LstdFlags|log.Lmicroseconds)

	log.Printf("🗄️  starting stashd")

	cfg, err := config.Load()
	if err != nil {
		log.Printf("❌ failed to load configuration: %v", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("❌ invalid configuration: %v", err)
		os.Exit(1)
	}

	kv, err := kvdb.NewGoLevelStore("stash", cfg.StashDir)
	if err != nil {
		log.Printf("❌ failed to open stash store at %s: %v", cfg.StashDir, err)
		os.Exit(1)
	}

	store := stash.New(kv)
	rt, err := stash.NewRuntime(store, cfg.RPCEndpoint, cfg.PubEndpoint, logger)
	if err != nil {
		log.Printf("❌ failed to start stash runtime: %v", err)
		kv.Close()
		os.Exit(1)
	}

	runFailed := make(chan struct{})
	go func() {
		rt.Run()
		close(runFailed)
	}()

	log.Printf("✅ stashd ready: rpc=%s pub=%s dir=%s", cfg.RPCEndpoint, cfg.PubEndpoint, cfg.StashDir)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Printf("🛑 shutting down stashd")
	case <-runFailed:
		log.Printf("❌ stash runtime stopped unexpectedly")
		kv.Close()
		os.Exit(2)
	}

	if err := rt.Close(); err != nil {
		log.Printf("⚠️  error closing stash runtime: %v", err)
	}
	if err := kv.Close(); err != nil {
		log.Printf("⚠️  error closing stash store: %v", err)
	}
	log.Printf("✅ stashd stopped")
}
