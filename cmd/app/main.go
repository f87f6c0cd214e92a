package main

import (
	"go.uber.org/fx"

	"github.com/Conte777/fanscraper/internal/app"
)

func main() {
	fx.New(app.CreateApp()).Run()
}
