package main

import (
	"os"

	"github.com/DRSN-tech/go-marketplace/internal/app"
	config "github.com/DRSN-tech/go-marketplace/internal/cfg"
	"github.com/DRSN-tech/go-marketplace/pkg/logger"
)

//	@title			Marketplace API
//	@version		1.0
//	@description	Маркетплейс цифровых товаров: каталог, оплата и библиотека покупателя.
//	@host			localhost:8080
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

func main() {
	log := logger.NewSlogLogger()

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}
