package main

import (
	"bytes"
	"crypto/tls"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/acme/autocert"

	"github.com/enzet/COVID-19/chart"
	"github.com/enzet/COVID-19/config"
	"github.com/enzet/COVID-19/series"
)

// server holds the dataset served over HTTP. A reload builds a fresh
// dataset and swaps the pointer under the mutex - the dataset being
// served is never mutated, so handlers only need the read lock for the
// swap itself.
type server struct {
	cfg *config.Config

	mu      sync.RWMutex
	dataset *series.Dataset
}

// serve loads the dataset and starts a web server rendering it as a
// chart on request.
func serve(cfg *config.Config) {
	s := &server{cfg: cfg}
	if err := s.reload(); err != nil {
		log.Fatalf("server: failed to load dataset:%s", err)
	}

	http.HandleFunc("/", s.handleChart)
	http.HandleFunc("/reload", s.handleReload)

	// Without domains serve plain HTTP on the local address, otherwise
	// TLS with certificates from lets encrypt.
	if len(cfg.Domains) == 0 {
		log.Printf("server: starting on %s", cfg.Addr)
		if err := http.ListenAndServe(cfg.Addr, nil); err != nil {
			log.Fatal(err)
		}
		return
	}
	startTLSServer(cfg.Domains)
}

// reload rebuilds the dataset from the input directory and swaps it in.
func (s *server) reload() error {
	dataset, err := buildDataset(s.cfg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.dataset = dataset
	s.mu.Unlock()
	return nil
}

// handleChart renders the comparison chart as SVG. The focus region
// comes from the url path (e.g. /Italy), falling back to the configured
// one; window and scale query params override presentation settings.
func (s *server) handleChart(w http.ResponseWriter, r *http.Request) {
	log.Printf("request:%s", r.URL)

	opts := renderOptions(s.cfg)
	if region := strings.Trim(r.URL.Path, "/"); region != "" {
		opts.Focus = region
	}
	if v := param(r, "window"); v != "" {
		window, err := strconv.Atoi(v)
		if err != nil || window < 0 {
			http.Error(w, "invalid window", http.StatusBadRequest)
			return
		}
		opts.Window = window
	}
	if v := param(r, "scale"); v != "" {
		opts.LogScale = v == "log"
	}

	s.mu.RLock()
	dataset := s.dataset
	s.mu.RUnlock()

	// Render to a buffer first so an error can still become a clean
	// http status.
	var buf bytes.Buffer
	if err := chart.Render(&buf, dataset, opts); err != nil {
		if errors.Is(err, series.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Printf("chart: render error:%s", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// handleReload rebuilds the dataset from disk
func (s *server) handleReload(w http.ResponseWriter, r *http.Request) {
	log.Printf("reload:%s", r.URL)

	if err := s.reload(); err != nil {
		log.Printf("reload error:%s", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// param returns one param string value
func param(r *http.Request, key string) string {
	queryParams := r.URL.Query()
	if len(queryParams[key]) > 0 {
		return queryParams[key][0]
	}

	return ""
}

// startTLSServer starts a TLS server using lets encrypt
func startTLSServer(domains []string) {
	certManager := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(domains...), // Domains to request certs for
		Cache:      autocert.DirCache("secrets"),       // Cache certs in secrets folder
	}

	server := &http.Server{
		Addr: ":443",

		// The default server from net/http has no timeouts - set some limits
		ReadHeaderTimeout: 30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       10 * time.Second,

		TLSConfig: &tls.Config{
			GetCertificate: certManager.GetCertificate,
			MinVersion:     tls.VersionTLS12,
			CurvePreferences: []tls.CurveID{
				tls.CurveP256,
				tls.X25519,
			},
		},
	}

	// Handle all :80 traffic using autocert to allow http-01 challenge responses
	go func() {
		http.ListenAndServe(":80", certManager.HTTPHandler(nil))
	}()

	err := server.ListenAndServeTLS("", "")
	if err != nil {
		log.Printf("error: starting server %s", err)
	}
}
