package main

import (
	"log"

	_ "taskboard/docs"
	"taskboard/internal/config"
	"taskboard/internal/server"
)

// @title           Taskboard API
// @version         1.0
// @description     API for managing portfolios, boards, lists and cards.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey SessionAuth
// @in header
// @name Cookie
// @description Session cookie issued at login.

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("server initialization failed: %v", err)
	}

	s.Run()
}
