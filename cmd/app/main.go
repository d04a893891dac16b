package main

import (
	"rentwheels/config"
	"rentwheels/di"
	"rentwheels/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
