package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lambda-feedback/docpreview/app"
	"github.com/lambda-feedback/docpreview/config"
	"github.com/lambda-feedback/docpreview/internal/server"
	"github.com/lambda-feedback/docpreview/preview"
	"github.com/lambda-feedback/docpreview/preview/files"
	"github.com/lambda-feedback/docpreview/staging"
	"github.com/lambda-feedback/docpreview/util/conf"
	"github.com/lambda-feedback/docpreview/util/logging"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var serveFlags = []cli.Flag{
	&cli.IntFlag{
		Name:     "port",
		Aliases:  []string{"p"},
		Usage:    "port to run the server on",
		Value:    8000,
		Category: "http",
		EnvVars:  []string{"PREVIEW_PORT"},
	},
	&cli.StringFlag{
		Name:     "host",
		Usage:    "the host to listen on. Listens on all interfaces if empty.",
		Category: "http",
		EnvVars:  []string{"PREVIEW_HOST"},
	},
	&cli.BoolFlag{
		Name:     "h2c",
		Usage:    "Enable HTTP/2 cleartext upgrade.",
		Category: "http",
		EnvVars:  []string{"PREVIEW_H2C"},
	},
	&cli.BoolFlag{
		Name:     "gzip",
		Usage:    "Compress responses for clients accepting gzip.",
		Category: "http",
		EnvVars:  []string{"PREVIEW_GZIP"},
	},
	&cli.PathFlag{
		Name:     "root",
		Aliases:  []string{"r"},
		Usage:    "the documentation base path. Defaults to two levels above the executable's directory.",
		Category: "docs",
		EnvVars:  []string{"PREVIEW_ROOT"},
	},
}

// serveAction stages the files the server needs, serves pages until the
// process is interrupted and removes the staged files again.
func serveAction(ctx *cli.Context) error {
	// interrupts during staging or startup cancel runCtx, so the deferred
	// cleanup below still runs
	runCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log, err := logging.LoggerFromContext(runCtx)
	if err != nil {
		return err
	}

	cfg, err := conf.GetConfigFromContext[config.Config](runCtx)
	if err != nil {
		return err
	}

	fs := afero.NewOsFs()

	staged, err := staging.Stage(runCtx, fs, cfg.Staging, log)
	if err != nil {
		if runCtx.Err() != nil {
			log.Info("interrupted while staging", zap.Error(err))
			return nil
		}
		return err
	}

	// runs on normal exit, on interrupt and when the server fails to start
	defer staged.Remove()

	app, err := app.New(ctx, fs)
	if err != nil {
		return err
	}

	printBanner(ctx, cfg.Http.Port)

	log.Info("starting preview server",
		zap.Int("port", cfg.Http.Port),
		zap.String("root", cfg.Docs.Root),
		zap.String("staged", staged.Path()),
	)

	return app.Run(runCtx,
		fx.Supply(staged),
		preview.Module(cfg.Docs),
		files.Module(cfg.Files),
		server.Module(cfg.Http),
	)
}

func printBanner(ctx *cli.Context, port int) {
	w := ctx.App.Writer

	fmt.Fprintf(w, "Starting previewserver on port %d\n", port)
	fmt.Fprintln(w, "The extension documentation can be found at:")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  http://localhost:%d\n", port)
	fmt.Fprintln(w)
}

func init() {
	rootApp.Flags = append(rootApp.Flags, serveFlags...)
	rootApp.Action = serveAction
}
