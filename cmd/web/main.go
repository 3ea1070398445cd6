package main

import (
	"palboti_backend/internal/app"
	"palboti_backend/internal/logger"
)

func main() {
	if err := app.Run(); err != nil {
		logger.Fatal("server exited", "error", err)
	}
}
