package main

import (
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	"slot_backend/internal/app"
)

func main() {
	a := app.NewApp()
	if err := a.Run(); err != nil {
		a.Logger().Fatal("server stopped", zap.Error(err))
	}
}
