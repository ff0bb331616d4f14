package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"storepilot/pkg/contextx"
	"storepilot/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const httpServerReadHeaderTimeout = 5 * time.Second

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// ReadyCheck reports whether the service can take traffic.
type ReadyCheck func(ctx context.Context) error

type Server struct {
	listenAddress string
	state         []byte
	checks        map[string]ReadyCheck
}

type Options struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func NewServer(
	listenAddress string,
	options Options,
) Server {
	stateJSON, _ := json.Marshal(options) //nolint:errcheck,errchkjson

	return Server{
		listenAddress: listenAddress,
		state:         stateJSON,
		checks:        make(map[string]ReadyCheck),
	}
}

// WithReadyCheck registers a named dependency check for /ready.
func (s Server) WithReadyCheck(name string, check ReadyCheck) Server {
	checks := make(map[string]ReadyCheck, len(s.checks)+1)
	for k, v := range s.checks {
		checks[k] = v
	}

	checks[name] = check
	s.checks = checks

	return s
}

func (s Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handlerHealthz)
	mux.HandleFunc("/ready", s.handlerReady)

	httpServer := &http.Server{
		//nolint:exhaustruct
		Addr:              s.listenAddress,
		Handler:           mux,
		ReadHeaderTimeout: httpServerReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()

		if err := httpServer.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger(ctx).Error("httpServer.Shutdown", logx.Error(err))
		}
	}()

	logger(ctx).Info("probe server started", slog.String("address", s.listenAddress))

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpServer.ListenAndServe: %w", err)
	}

	logger(ctx).Info("probe server stopped")

	return nil
}

func (s Server) handlerHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write(s.state) //nolint:errcheck
}

func (s Server) handlerReady(w http.ResponseWriter, r *http.Request) {
	failed := make(map[string]string)

	for name, check := range s.checks {
		if err := check(r.Context()); err != nil {
			logger(r.Context()).Warn("ready check failed", slog.String("check", name), logx.Error(err))
			failed[name] = err.Error()
		}
	}

	if len(failed) > 0 {
		body, _ := json.Marshal(map[string]any{"failed": failed}) //nolint:errcheck,errchkjson

		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write(body) //nolint:errcheck

		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(s.state) //nolint:errcheck
}
