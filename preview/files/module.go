package files

import (
	"go.uber.org/fx"

	"github.com/lambda-feedback/docpreview/util/logging"
)

// Module provides the file-backed preview.HandlerFactory.
func Module(config Config) fx.Option {
	return fx.Module(
		"files",
		// rename logger for module
		logging.DecorateLogger("files"),
		// provide files config
		fx.Supply(config),
		// provide handler factory
		fx.Provide(NewFactory),
	)
}
