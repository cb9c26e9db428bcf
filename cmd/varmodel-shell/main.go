// varmodel-shell is an interactive shell around a live variable model:
// browse the tree, read and write values, add and delete table rows, and
// persist the model file, while the engine ticks in the background.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/varmodel/varmodel-go/pkg/config"
	"github.com/varmodel/varmodel-go/pkg/examples"
	"github.com/varmodel/varmodel-go/pkg/log"
	"github.com/varmodel/varmodel-go/pkg/model"
	"github.com/varmodel/varmodel-go/pkg/persistence"
	"github.com/varmodel/varmodel-go/pkg/runtime"
	"github.com/varmodel/varmodel-go/pkg/version"
)

func main() {
	configPath := flag.String("config", "", "config file (default varmodel.yaml if present)")
	verbose := flag.Bool("verbose", false, "log engine events to the console")
	demo := flag.Bool("demo", false, "declare the example lighting and motion-zone modules")
	showVersion := flag.Bool("version", false, "print the engine version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Current)
		return
	}

	if err := run(*configPath, *verbose, *demo); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(configPath string, verbose, demo bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := buildLogger(cfg, verbose)

	m := model.New(logger)
	store := persistence.NewStore(cfg.ModelPath, logger)

	// A corrupt file degrades to an empty tree; the shell still starts.
	nodes, err := store.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	}
	m.SetRoot(nodes)

	runner := runtime.New(m, store, cfg, logger)
	runner.Setup()
	if demo {
		examples.NewLighting().Setup(m)
		examples.NewZones().Setup(m)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- runner.Run(ctx) }()

	sh, err := newShell(runner)
	if err != nil {
		return err
	}
	sh.run(cancel)

	<-errCh
	return nil
}

// buildLogger assembles the event logger from the config: CBOR file
// logging when a path is set, console logging when verbose.
func buildLogger(cfg config.Config, verbose bool) log.Logger {
	var loggers []log.Logger
	if cfg.EventLogPath != "" {
		fl, err := log.NewFileLogger(cfg.EventLogPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "warning: event log disabled:", err)
		} else {
			loggers = append(loggers, fl)
		}
	}
	if verbose {
		loggers = append(loggers, log.NewSlogAdapter(slog.Default()))
	}
	switch len(loggers) {
	case 0:
		return log.NoopLogger{}
	case 1:
		return loggers[0]
	default:
		return log.NewMultiLogger(loggers...)
	}
}
