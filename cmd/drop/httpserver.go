package main

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/dropsrv/drop/internal/adminapi"
	"github.com/dropsrv/drop/internal/config"
	"github.com/dropsrv/drop/internal/dropstore"
	"github.com/dropsrv/drop/internal/httpapi"
	"github.com/dropsrv/drop/log"
)

var logger = log.WithContext("pkg", "cmd-drop")

// startServers brings up the content-family HTTP server and, if
// adminAddr is non-empty, the admin server, mirroring
// cmd/thor/httpserver's pattern of one listener + one *http.Server per
// concern. It returns a single shutdown function that closes both.
func startServers(cfg config.Config, prefixCacheSize int, adminAddr string, requestTimeout time.Duration) (func(), error) {
	store, err := dropstore.NewStore(cfg.Dir, prefixCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "open store")
	}

	bind := fmt.Sprintf("%s:%d", cfg.HTTPAddr, cfg.HTTPPort)
	httpURL, stopHTTP, err := startHTTPServer(bind, store, cfg.Timeout, requestTimeout)
	if err != nil {
		return nil, err
	}
	logger.Info("http server listening", "url", httpURL)

	var stopAdmin func()
	if adminAddr != "" {
		logLevel := new(slog.LevelVar)
		var adminURL string
		adminURL, stopAdmin, err = startAdminServer(adminAddr, logLevel, store)
		if err != nil {
			stopHTTP()
			return nil, err
		}
		logger.Info("admin server listening", "url", adminURL)
	}

	return func() {
		stopHTTP()
		if stopAdmin != nil {
			stopAdmin()
		}
	}, nil
}

func startHTTPServer(addr string, store *dropstore.Store, ttl, requestTimeout time.Duration) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen HTTP addr [%v]", addr)
	}

	handler := httpapi.New(store, ttl, requestTimeout)
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("http server stopped", "err", err)
		}
	}()

	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		wg.Wait()
	}, nil
}

func startAdminServer(addr string, logLevel *slog.LevelVar, store *dropstore.Store) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen admin addr [%v]", addr)
	}

	srv := &http.Server{Handler: adminapi.New(logLevel, store), ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("admin server stopped", "err", err)
		}
	}()

	return "http://" + listener.Addr().String() + "/admin", func() {
		srv.Close()
		wg.Wait()
	}, nil
}

func waitForInterrupt() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")
}
