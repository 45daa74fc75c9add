package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/tiggercwh/go-wordlebot/config"
	"github.com/tiggercwh/go-wordlebot/solver"
	"github.com/tiggercwh/go-wordlebot/wordlist"
)

var (
	addr         = flag.String("addr", "", "Listen address (overrides WORDLEBOT_ADDR)")
	wordListPath = flag.String("wordlist", "", "Path to a TSV/CSV file of word[,prior] rows (overrides WORDLEBOT_WORDLIST)")
	logLevel     = flag.String("log-level", "", "debug|info|warn|error (overrides WORDLEBOT_LOG_LEVEL)")
)

// statusWriter captures HTTP status and bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Hijack lets the websocket upgrader take over the connection.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func requestLogger(log zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", sw.status).
				Int("bytes", sw.bytes).
				Dur("dur", time.Since(start)).
				Msg("http")
		})
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func newRouter(ss *SolverServer) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger(ss.log), cors)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/session/new", ss.handleNewSession).Methods("POST", "OPTIONS")
	api.HandleFunc("/session/{sessionID}", ss.handleGetSession).Methods("GET")
	api.HandleFunc("/session/{sessionID}", ss.handleDeleteSession).Methods("DELETE", "OPTIONS")
	api.HandleFunc("/session/{sessionID}/guess", ss.handleGuess).Methods("POST", "OPTIONS")
	api.HandleFunc("/session/{sessionID}/undo", ss.handleUndo).Methods("POST", "OPTIONS")
	api.HandleFunc("/session/{sessionID}/reset", ss.handleReset).Methods("POST", "OPTIONS")
	api.HandleFunc("/session/{sessionID}/ws", ss.handleSessionWS).Methods("GET")
	api.HandleFunc("/evaluate", ss.handleEvaluate).Methods("POST", "OPTIONS")
	api.HandleFunc("/rank", ss.handleRank).Methods("GET")
	api.HandleFunc("/valid/{word}", ss.handleValid).Methods("GET")
	return r
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *wordListPath != "" {
		cfg.WordList = *wordListPath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	log := config.NewLogger(cfg.LogLevel, os.Stderr)

	list, err := wordlist.Load(cfg.WordList)
	if err != nil {
		return fmt.Errorf("failed to load word list: %w", err)
	}
	s, err := solver.New(ctx, list.Words, list.Priors, append(cfg.SolverOptions(), solver.WithLogger(log))...)
	if err != nil {
		return err
	}

	ss := NewSolverServer(ctx, s, cfg.SuggestOptions(), cfg.MaxRounds, log)
	defer ss.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(ss),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	log.Info().Str("addr", cfg.Addr).Int("words", list.Len()).Int("answers", len(list.Answers())).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func main() {
	flag.Parse()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}
