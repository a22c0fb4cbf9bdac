package app

import (
	"github.com/lambda-feedback/docpreview/config"
	"github.com/lambda-feedback/docpreview/internal/shell"
	"github.com/lambda-feedback/docpreview/util/conf"
	"github.com/lambda-feedback/docpreview/util/logging"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
)

func New(ctx *cli.Context, fs afero.Fs) (*shell.Shell, error) {
	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return nil, err
	}

	config, err := conf.GetConfigFromContext[config.Config](ctx.Context)
	if err != nil {
		return nil, err
	}

	sharedModule := fx.Module(
		"shared",
		// provide global config
		fx.Supply(config),
		// provide the filesystem pages and staged files are read from
		fx.Supply(fx.Annotate(fs, fx.As(new(afero.Fs)))),
	)

	return shell.New(log, sharedModule), nil
}
