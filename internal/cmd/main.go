package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DMarby/bandfilter/internal/logger"
)

// Http timeouts
const (
	ReadTimeout    = 5 * time.Second
	WriteTimeout   = 2 * time.Minute
	HandlerTimeout = 90 * time.Second
)

// ErrCanceled is returned by WaitForInterrupt when its context is done before a signal arrives
var ErrCanceled = errors.New("canceled")

// WaitForInterrupt blocks until SIGINT or SIGTERM is received, or ctx is done
func WaitForInterrupt(ctx context.Context) error {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(c)

	select {
	case sig := <-c:
		return fmt.Errorf("received signal %s", sig)
	case <-ctx.Done():
		return ErrCanceled
	}
}

// NewServer returns a http server with the default timeouts, logging its errors through log
func NewServer(log *logger.Logger, addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		ErrorLog:     logger.NewHTTPErrorLog(log),
	}
}

// ListenAndServe serves until the server fails, ctx is done, or the process is interrupted.
// In-flight requests then get WriteTimeout to complete.
func ListenAndServe(ctx context.Context, log *logger.Logger, server *http.Server) {
	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := server.ListenAndServe(); err != nil {
			log.Infof("shutting down the http server: %s", err)
			cancel()
		}
	}()

	log.Infof("http server listening on %s", server.Addr)

	err := WaitForInterrupt(serveCtx)
	log.Infof("shutting down: %s", err)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), WriteTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warnf("error shutting down: %s", err)
	}
}
