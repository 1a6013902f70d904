package cli

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
)

func newHealthzCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "healthz",
		Short: "Serve a liveness endpoint for the solver (for container orchestrators)",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			router := newHealthRouter()

			server := &http.Server{
				Addr:              addr,
				Handler:           router,
				ReadHeaderTimeout: 5 * time.Second,
			}

			logger.Infof("healthz listening on %s", addr)
			errc := make(chan error, 1)
			go func() { errc <- server.ListenAndServe() }()

			select {
			case <-cmd.Context().Done():
				return server.Close()
			case err := <-errc:
				return err
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8089", "address to listen on")
	return cmd
}

func newHealthRouter() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	return router
}
