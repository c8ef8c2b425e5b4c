// Copyright 2026 RGB Protocol
//
// fungibled entry point

// Command fungibled runs the fungible-asset service: the asset cache and
// the issue/transfer/accept/forget workflow built on top of a stash
// connection.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rgbprotocol/rgbd/pkg/config"
	"github.com/rgbprotocol/rgbd/pkg/fungible"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger := log.New(os.Stdout, "[fungibled] ", log.LstdFlags|log.Lmicroseconds)

	log.Printf("💰 starting fungibled")

	cfg, err := config.Load()
	if err != nil {
		log.Printf("❌ failed to load configuration: %v", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("❌ invalid configuration: %v", err)
		os.Exit(1)
	}

	format, err := fungible.ParseDataFormat(cfg.Format)
	if err != nil {
		log.Printf("❌ invalid cache format %q: %v", cfg.Format, err)
		os.Exit(1)
	}

	cache := fungible.NewCache()
	if err := fungible.LoadCacheDir(cache, cfg.CacheDir, format); err != nil {
		log.Printf("⚠️  starting with an empty cache: %v", err)
	}

	stashClient := fungible.NewStashClient(cfg.StashRPC, cfg.StashDeadline)

	rt, err := fungible.NewRuntime(cache, stashClient, cfg.Network, cfg.RPCEndpoint, cfg.PubEndpoint, cfg.StashSub, logger)
	if err != nil {
		log.Printf("❌ failed to start fungible runtime: %v", err)
		os.Exit(1)
	}

	if synced, err := rt.Sync(); err != nil {
		log.Printf("⚠️  initial sync with stash failed: %v", err)
	} else if synced > 0 {
		log.Printf("🔄 adopted %d contract(s) from stash during startup sync", synced)
	}

	runFailed := make(chan struct{})
	go func() {
		rt.Run()
		close(runFailed)
	}()

	log.Printf("✅ fungibled ready: rpc=%s pub=%s stash=%s", cfg.RPCEndpoint, cfg.PubEndpoint, cfg.StashRPC)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Printf("🛑 shutting down fungibled")
	case <-runFailed:
		log.Printf("❌ fungible runtime stopped unexpectedly")
		os.Exit(2)
	}

	if err := rt.Close(); err != nil {
		log.Printf("⚠️  error closing fungible runtime: %v", err)
	}
	if err := fungible.SaveCacheDir(cache, cfg.CacheDir, format); err != nil {
		log.Printf("⚠️  error persisting cache to %s: %v", cfg.CacheDir, err)
	}
	log.Printf("✅ fungibled stopped")
}
