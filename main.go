// Package main is the entry point for reelcast.
package main

import (
	"github.com/joho/godotenv"
	"github.com/reelcast/reelcast/cmd"
	"github.com/reelcast/reelcast/config"
	"github.com/reelcast/reelcast/internal/cache"
	"github.com/reelcast/reelcast/log"
	"github.com/samber/lo"
)

func main() {
	// a missing .env is fine
	_ = godotenv.Load()

	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	go cache.CollectGarbage()

	cmd.Execute()
}
