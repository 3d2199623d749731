package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"pdf-toolkit/internal/catalog"
	"pdf-toolkit/internal/config"
	"pdf-toolkit/internal/converter"
	"pdf-toolkit/internal/domain"
	"pdf-toolkit/internal/pdfengine"
	"pdf-toolkit/internal/repository"
	"pdf-toolkit/internal/service"
	"pdf-toolkit/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// toolkit is the subset of the server's container a single command needs.
type toolkit struct {
	logger  domain.Logger
	engine  *pdfengine.Engine
	catalog *catalog.Catalog
	tools   *service.ToolService
	merge   *service.MergeService
	closers []io.Closer
}

func (a *app) newToolkit(cmd *cobra.Command) (_ *toolkit, err error) {
	log := logger.NewLoggerWithOutput(cmd.ErrOrStderr(), a.v.GetString("log-level"), a.v.GetString("log-format"))
	tk := &toolkit{logger: log, engine: pdfengine.New(log)}
	defer func() {
		if err != nil {
			_ = tk.Close()
		}
	}()

	conv, err := converter.New(converter.Options{
		TextExtractor: a.v.GetString("text-extractor"),
		ChromePath:    a.v.GetString("chrome-path"),
		AutoDownload:  a.v.GetBool("browser-auto-download"),
		Timeout:       a.v.GetDuration("convert-timeout"),
	}, log)
	if err != nil {
		return nil, fmt.Errorf("converter: %w", err)
	}
	tk.closers = append(tk.closers, conv)

	if tk.catalog, err = catalog.New(disabledTools(a.v), log); err != nil {
		return nil, fmt.Errorf("tool catalog: %w", err)
	}
	tk.closers = append(tk.closers, tk.catalog)

	// A one-shot merge never creates a session, but the service needs a store.
	sessions := repository.NewMemorySessionStore(0, log)
	tk.closers = append(tk.closers, sessions)

	tk.tools = service.NewToolService(tk.engine, conv, log)
	tk.merge = service.NewMergeService(tk.engine, sessions, a.v.GetInt("max-files"), log)
	return tk, nil
}

// disabledTools reads the setting the way the server reads DISABLED_TOOLS.
// viper splits environment values on whitespace only.
func disabledTools(v *viper.Viper) []string {
	return config.SplitList(v.GetStringSlice("disabled-tools")...)
}

// require fails when the tool is switched off in the catalog.
func (tk *toolkit) require(toolID string) error {
	if !tk.catalog.IsActive(toolID) {
		return fmt.Errorf("%s: %w", toolID, domain.ErrToolUnavailable)
	}
	return nil
}

func (tk *toolkit) Close() error {
	var errs []error
	for i := len(tk.closers) - 1; i >= 0; i-- {
		if err := tk.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	tk.closers = nil
	return errors.Join(errs...)
}

// withToolkit builds a toolkit around one command run.
func (a *app) withToolkit(fn func(cmd *cobra.Command, tk *toolkit, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		tk, err := a.newToolkit(cmd)
		if err != nil {
			return err
		}
		defer tk.Close()
		return fn(cmd, tk, args)
	}
}

func readUpload(path string) (service.Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return service.Upload{}, err
	}
	return service.Upload{Name: filepath.Base(path), Content: data}, nil
}

// writeOutput stores out at path. An empty path uses the suggested file
// name and "-" means stdout.
func writeOutput(cmd *cobra.Command, out *domain.Output, path string) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(out.Data)
		return err
	}
	if path == "" {
		path = out.Filename
	}
	if err := os.WriteFile(path, out.Data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d bytes)\n", path, len(out.Data))
	return nil
}
