package preview

import (
	"go.uber.org/fx"

	"github.com/lambda-feedback/docpreview/internal/server"
	"github.com/lambda-feedback/docpreview/util/logging"
)

// Module provides the preview adapter and registers it on the server.
// A HandlerFactory must be provided by another module.
func Module(config Config) fx.Option {
	return fx.Module(
		"preview",
		// rename logger for module
		logging.DecorateLogger("preview"),
		// provide preview config
		fx.Supply(config),
		// provide adapter
		fx.Provide(NewAdapter),
		// provide page route
		fx.Provide(NewPageRoute),
	)
}

func NewPageRoute(adapter *Adapter) server.HttpHandlerResult {
	return server.AsHttpHandler("/", adapter)
}
