// Command textpipe reads lines from standard input, passes each through an
// operator-specified chain of transform stages running concurrently, and
// writes the results to standard output. See spec.md for the full design.
package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"golang.org/x/xerrors"

	"github.com/textpipe/textpipe/internal/admin"
	"github.com/textpipe/textpipe/internal/metrics"
	"github.com/textpipe/textpipe/internal/pipeline"
	"github.com/textpipe/textpipe/internal/stage"
	"github.com/textpipe/textpipe/internal/tracer"
)

var (
	appName = "textpipe"
	appSha  = "populated-at-link-time"
	logger  *logrus.Entry
)

func main() {
	host, _ := os.Hostname()
	rootLogger := logrus.New()
	rootLogger.SetFormatter(new(logrus.JSONFormatter))
	logger = rootLogger.WithFields(logrus.Fields{
		"app":  appName,
		"sha":  appSha,
		"host": host,
	})

	if err := makeApp().Run(os.Args); err != nil {
		logger.WithField("err", err).Error("shutting down due to error")
		_ = os.Stderr.Sync()
		os.Exit(1)
	}
}

func makeApp() *cli.App {
	app := cli.NewApp()
	app.Name = appName
	app.Version = appSha
	app.Usage = "STAGE_1 STAGE_2 ... STAGE_N"
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:   "buffer-capacity",
			Value:  16,
			EnvVar: "TEXTPIPE_BUFFER_CAPACITY",
			Usage:  "capacity of every inter-stage buffer",
		},
		cli.StringFlag{
			Name:   "admin-addr",
			Value:  "",
			EnvVar: "TEXTPIPE_ADMIN_ADDR",
			Usage:  "if set, address (host:port) for the HTTP admin/metrics server",
		},
		cli.BoolFlag{
			Name:   "jaeger",
			EnvVar: "TEXTPIPE_JAEGER",
			Usage:  "export per-line stage spans to Jaeger (configured from the standard JAEGER_* env vars)",
		},
	}
	app.Action = runMain
	return app
}

func runMain(appCtx *cli.Context) error {
	stageNames := appCtx.Args()
	if len(stageNames) == 0 {
		return xerrors.New("usage: textpipe STAGE_1 STAGE_2 ... STAGE_N (at least one stage is required)")
	}

	tr, err := tracer.GetTracer(appName, appCtx.Bool("jaeger"))
	if err != nil {
		return xerrors.Errorf("could not initialize tracer: %w", err)
	}
	defer func() { _ = tracer.Pool.Close() }()

	recorder := metrics.NewRecorder()

	factories := make([]stage.Factory, len(stageNames))
	for i, name := range stageNames {
		factories[i] = stage.NewRegistryFactory(name, "")
	}

	p, err := pipeline.Build(factories, appCtx.Int("buffer-capacity"),
		pipeline.WithLogger(logger),
		pipeline.WithTracer(tr),
		pipeline.WithMetrics(recorder),
	)
	if err != nil {
		return xerrors.Errorf("could not assemble pipeline: %w", err)
	}

	var adminSrv *admin.Server
	if addr := appCtx.String("admin-addr"); addr != "" {
		adminSrv = admin.NewServer(p.Stages(), recorder)
		go func() {
			logger.WithField("addr", addr).Info("listening for admin/metrics requests")
			if err := http.ListenAndServe(addr, adminSrv.Handler()); err != nil {
				logger.WithField("err", err).Error("admin server exited")
			}
		}()
	}

	p.Start(os.Stdin, os.Stdout)
	if adminSrv != nil {
		adminSrv.Ready()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGHUP)
	doneCh := make(chan struct{})
	go func() {
		p.Wait()
		close(doneCh)
	}()

	select {
	case s := <-sigCh:
		logger.WithField("signal", s.String()).Info("shutting down due to signal")
		p.Stop()
		<-doneCh
	case <-doneCh:
	}

	return nil
}
