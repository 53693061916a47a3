// Package rest serves the read API of the node, accepts signed transactions
// and streams committed blocks over websocket.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/GPTx-global/guru-aggregator/app"
	"github.com/GPTx-global/guru-aggregator/config"
)

const shutdownTimeout = 5 * time.Second

// Server is the REST front end of an App.
type Server struct {
	app    *app.App
	cfg    config.RESTConfig
	logger log.Logger

	router     *mux.Router
	httpServer *http.Server
}

// NewServer registers the routes for a.
func NewServer(a *app.App, cfg config.RESTConfig, logger log.Logger) *Server {
	s := &Server{
		app:    a,
		cfg:    cfg,
		logger: logger.With("module", "rest"),
		router: mux.NewRouter(),
	}
	s.registerRoutes()

	s.httpServer = &http.Server{
		Addr:              cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the router wrapped with the CORS policy.
func (s *Server) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(s.router)
}

func (s *Server) registerRoutes() {
	r := s.router
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/txs", s.handleBroadcastTx).Methods(http.MethodPost)
	r.HandleFunc("/auth/sequence/{address}", s.handleSequence).Methods(http.MethodGet)
	if s.cfg.WebSocket {
		r.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)
	}

	s.registerTokensRoutes(r.PathPrefix("/tokens").Subrouter())
	s.registerAggregatorRoutes(r.PathPrefix("/aggregator").Subrouter())
	s.registerPriceRoutes(r.PathPrefix("/price").Subrouter())
	s.registerExchangeRoutes(r.PathPrefix("/exchange").Subrouter())
}

// Start serves until ctx is cancelled and then shuts the listener down.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("rest server listening", "address", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "rest server failed")
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "rest server shutdown")
	}
	s.logger.Info("rest server stopped")
	return nil
}

// StatusResponse describes the last committed block.
type StatusResponse struct {
	ChainID string    `json:"chain_id"`
	Height  int64     `json:"height"`
	Time    time.Time `json:"time"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		ChainID: s.app.ChainID(),
		Height:  s.app.LastBlockHeight(),
		Time:    s.app.LastBlockTime(),
	})
}
