// Package main provides the CLI entry point for chartform.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/drake/chartform/config"
	"github.com/drake/chartform/debug"
	"github.com/drake/chartform/event"
	"github.com/drake/chartform/lua"
	"github.com/drake/chartform/session"
	"github.com/drake/chartform/source"
	"github.com/drake/chartform/ui"
)

var (
	dataPath    string
	payloadPath string
	outPath     string
	missingDep  string
	scripts     []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "chartform",
		Short: "Compose a layered chart in the terminal",
		Long: `chartform edits a chart's root settings and layers against a set of
datasets. A Lua host script plays the evaluator: it answers every edit with
the authoritative state the form then shows.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().StringVarP(&dataPath, "data", "d", "", "Datasets: an .xlsx workbook (one dataset per sheet) or a YAML dataset list")
	rootCmd.Flags().StringVarP(&payloadPath, "payload", "p", "", "YAML init payload to start from")
	rootCmd.Flags().StringVarP(&outPath, "output", "o", "", "Write the final form state as a YAML payload")
	rootCmd.Flags().StringVar(&missingDep, "missing-dep", "", "Report a missing dependency to the form")
	rootCmd.Flags().StringSliceVarP(&scripts, "script", "s", nil, "Extra host scripts, loaded after host.lua")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logw, err := openLog()
	if err != nil {
		return err
	}
	defer logw.Close()

	engine := lua.NewEngine(nil, log.New(logw, "[host] ", log.LstdFlags))
	defer engine.Close()
	if err := engine.Boot(lua.CoreScripts, config.UserScripts(scripts...)...); err != nil {
		return fmt.Errorf("load scripts: %w", err)
	}

	init, err := mount(engine)
	if err != nil {
		return err
	}

	s := session.New(init, engine, session.Config{
		Logger: log.New(logw, "[session] ", log.LstdFlags),
	})
	engine.SetSink(s)

	// The loop is not running yet, so the host may be driven from here.
	if missingDep != "" {
		engine.SetMissingDependency(missingDep)
	}

	// The session outlives the UI so the last edit can still be flushed.
	sessCtx, stopSession := context.WithCancel(context.Background())
	defer stopSession()
	go s.Run(sessCtx)
	debug.NewMonitor(sessCtx, s, log.New(logw, "", log.LstdFlags)).Start()

	quitCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()
	go func() {
		select {
		case <-s.Done():
			stopSignals()
		case <-quitCtx.Done():
		}
	}()

	tui := ui.NewBubbleTeaUI(s)
	tui.QuitWhen(quitCtx)
	if err := tui.Run(); err != nil && !errors.Is(err, tea.ErrInterrupted) {
		return fmt.Errorf("ui: %w", err)
	}

	flushCtx, flushCancel := context.WithTimeout(context.Background(), time.Second)
	defer flushCancel()
	if err := s.Flush(flushCtx); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	if outPath != "" {
		if err := source.SavePayload(outPath, s.Snapshot().Init()); err != nil {
			return err
		}
	}
	return nil
}

// mount builds the init payload: from a saved payload when given, otherwise
// by asking the host script to lay out a form over the datasets.
func mount(engine *lua.Engine) (event.Init, error) {
	var init event.Init
	var err error

	if payloadPath != "" {
		init, err = source.LoadPayload(payloadPath)
		if err != nil {
			return init, fmt.Errorf("load payload: %w", err)
		}
	}

	if dataPath != "" {
		datasets, err := source.LoadDatasets(dataPath)
		if err != nil {
			return init, fmt.Errorf("load data: %w", err)
		}
		if payloadPath == "" {
			return engine.Mount(datasets)
		}
		init.DataOptions = datasets
	}

	if payloadPath == "" {
		return engine.Mount(nil)
	}
	return engine.Restore(init)
}

// openLog opens the log file. The alternate screen owns stderr while the
// form is up.
func openLog() (io.WriteCloser, error) {
	if err := os.MkdirAll(config.Dir(), 0o755); err != nil {
		return nil, fmt.Errorf("config dir: %w", err)
	}
	f, err := os.OpenFile(config.LogFile(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return f, nil
}
