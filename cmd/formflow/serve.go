package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/internal/config"
	"github.com/goliatone/go-formflow/pkg/definition"
	"github.com/goliatone/go-formflow/pkg/httpapi"
	"github.com/goliatone/go-formflow/pkg/model"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var (
		addr     string
		basePath string
	)
	cmd := &cobra.Command{
		Use:   "serve <definitions dir>",
		Short: "Serve every definition in a directory over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			forms, err := definition.LoadFS(os.DirFS(args[0]))
			if err != nil {
				return err
			}
			if len(forms) == 0 {
				return fmt.Errorf("no form definitions found in %s", args[0])
			}

			srvCfg, err := config.LoadServer()
			if err != nil {
				return err
			}
			if addr != "" {
				srvCfg.Addr = addr
			}

			backend, err := a.openBackend()
			if err != nil {
				return err
			}
			defer closeBackend(backend, a.logger)

			fns := []httpapi.OptionFn{
				httpapi.WithForms(forms),
				httpapi.WithKeyPrefix(srvCfg.SessionKeyPrefix),
				httpapi.WithLogger(a.logger),
				httpapi.WithEngineOptions(a.engineOptions()...),
				httpapi.WithSubmitFunc(a.logSubmission),
			}
			if backend != nil {
				fns = append(fns, httpapi.WithKV(backend))
			}
			api := httpapi.New(fns...)

			mux := http.NewServeMux()
			if _, err := api.RegisterRoutes(mux, basePath); err != nil {
				return err
			}
			server := &http.Server{
				Addr:         srvCfg.Addr,
				Handler:      mux,
				ReadTimeout:  srvCfg.ReadTimeout,
				WriteTimeout: srvCfg.WriteTimeout,
			}
			return a.listen(cmd.Context(), server, len(forms))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides FORMFLOW_HTTP_ADDR)")
	cmd.Flags().StringVar(&basePath, "base-path", "/", "path prefix for every route")
	return cmd
}

func (a *app) listen(ctx context.Context, server *http.Server, forms int) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("serving forms", zap.String("addr", server.Addr), zap.Int("forms", forms))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	<-errCh
	a.logger.Info("server stopped")
	return nil
}

// logSubmission is the submit callback for served forms: submitted answers
// are written to the log.
func (a *app) logSubmission(_ context.Context, data model.FormData) error {
	a.logger.Info("form submitted", zap.Any("data", data))
	return nil
}
