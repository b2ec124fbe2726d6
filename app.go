// Package gimbal assembles the orchestration server: project store, session
// orchestrator, tool bridge, and the HTTP surface.
package gimbal

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gimbal/handlers"
	"gimbal/mcp"
	"gimbal/project"
	"gimbal/runtime"
	"gimbal/session"
	"gimbal/store"
)

// Server is the main gimbal instance. Create one with New(), then call
// Start() to run the HTTP server until shutdown.
type Server struct {
	cfg *Config
	srv *http.Server
}

// New creates a server from the given configuration.
func New(cfg *Config) *Server {
	return &Server{cfg: cfg}
}

// Start initializes the workspace and dependencies, builds routes, and runs
// the HTTP server. It blocks until the server is shut down via signal or
// Shutdown().
func (s *Server) Start() error {
	cfg := s.cfg
	if err := EnsureWorkspace(cfg); err != nil {
		return fmt.Errorf("ensure workspace: %w", err)
	}

	projects := project.NewStore(cfg.ProjectsFile(), cfg.ProjectsDir())
	st := store.New(cfg.LogsDir(), cfg.HistoryDir())
	bridge := mcp.NewBridge(cfg.ResolvedMCPBinDir())
	rt := runtime.NewCLIRuntime(cfg.RuntimeCommand)
	rt.ExtraArgs = cfg.RuntimeArgs
	sessions := session.NewService(session.NewRunner(rt), session.NewRegistry(), bridge, st)

	deps := &handlers.Deps{
		Projects: projects,
		Sessions: sessions,
		Store:    st,
	}

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok"}`)
	})

	handlers.RegisterRoutes(mux, deps)

	// Static file serving with SPA fallback
	if info, err := os.Stat(cfg.StaticPath); err == nil && info.IsDir() {
		log.Printf("Serving static files from %s", cfg.StaticPath)
		fs := http.FileServer(http.Dir(cfg.StaticPath))
		staticPath := cfg.StaticPath
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			path := staticPath + r.URL.Path
			if _, err := os.Stat(path); os.IsNotExist(err) && r.URL.Path != "/" {
				http.ServeFile(w, r, staticPath+"/index.html")
				return
			}
			fs.ServeHTTP(w, r)
		})
	}

	handler := corsMiddleware(mux)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // disable for streaming responses
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown on signal
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.srv.Shutdown(ctx)
	}()

	log.Printf("gimbal starting on %s (workspace=%s, runtime=%s)", addr, cfg.RootDir, cfg.RuntimeCommand)

	if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

// corsMiddleware opens the API to browser clients during development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
