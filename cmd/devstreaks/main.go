// Package main is the entry point for the devstreaks CLI.
package main

import (
	"github.com/joho/godotenv"

	"github.com/blackwell-systems/devstreaks/internal/app"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0"
var version = "dev"

func main() {
	// A missing .env is normal; real environment variables still apply.
	_ = godotenv.Load()

	app.SetVersion(version)
	app.Execute()
}
