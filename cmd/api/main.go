// Command api serves the storefront HTTP API.
package main

import (
	"go.uber.org/fx"

	"github.com/Additional-Code/geosstore/internal/app"
)

func main() {
	fx.New(app.Module, app.EventLogger).Run()
}
