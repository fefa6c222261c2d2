/*
Package server is the relay of the agents: it's the HTTP endpoint the other
agents push their envelopes to, and the pull inbox where the owner of the
mailbox reads them. The mailbox is the last path part of the endpoint, e.g.
POST https://agent.example.com/a2a/<DID>.

The relay doesn't authenticate anyone. Whoever knows the mailbox name can
drain it with GET, so in production the pull route must sit behind an
authenticating proxy.
*/
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/findy-network/findy-agent-core/agent/pltype"
	"github.com/findy-network/findy-agent-core/agent/txp"
	"github.com/findy-network/findy-agent-core/agent/utils"
	"github.com/go-chi/chi/v5"
	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MaxEnvelopeSize is the maximum size of the accepted envelope.
const MaxEnvelopeSize = 4 << 20

// DefaultServiceName is the URL path of the mailboxes.
const DefaultServiceName = "a2a"

type relay struct {
	mailbox *Mailbox
}

// NewHandler returns the relay's HTTP handler. The metrics are served from
// the gatherer when it isn't nil.
func NewHandler(serviceName string, mailbox *Mailbox, gatherer prometheus.Gatherer) http.Handler {
	if serviceName == "" {
		serviceName = DefaultServiceName
	}
	rl := &relay{mailbox: mailbox}

	r := chi.NewRouter()
	r.Route("/"+strings.Trim(serviceName, "/"), func(r chi.Router) {
		r.Post("/{box}", rl.receive)
		r.Get("/{box}", rl.pull)
	})
	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		glog.V(5).Infoln("/version requested")
		_, _ = w.Write([]byte(utils.Settings.VersionInfo()))
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (rl *relay) receive(w http.ResponseWriter, r *http.Request) {
	box := chi.URLParam(r, "box")
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxEnvelopeSize))
	if err != nil {
		http.Error(w, "cannot read envelope", http.StatusRequestEntityTooLarge)
		return
	}
	if len(data) == 0 {
		http.Error(w, "empty envelope", http.StatusBadRequest)
		return
	}
	packed := strings.HasPrefix(r.Header.Get("Content-Type"), pltype.AgentWireMessage)

	if err := rl.mailbox.Put(r.Context(), box, txp.Envelope{Payload: data, Packed: packed}); err != nil {
		glog.Errorf("mailbox %s: %v", box, err)
		http.Error(w, "mailbox error", http.StatusInternalServerError)
		return
	}
	relayTotal.WithLabelValues("receive").Inc()
	if glog.V(3) {
		glog.Infof("===== Incoming envelope %d bytes to %s =====", len(data), box)
	}
	w.WriteHeader(http.StatusAccepted)
}

func (rl *relay) pull(w http.ResponseWriter, r *http.Request) {
	box := chi.URLParam(r, "box")
	envs, err := rl.mailbox.Drain(r.Context(), box)
	if err != nil {
		glog.Errorf("mailbox %s: %v", box, err)
		http.Error(w, "mailbox error", http.StatusInternalServerError)
		return
	}
	data, err := txp.EncodeInbox(envs)
	if err != nil {
		http.Error(w, "encode inbox", http.StatusInternalServerError)
		return
	}
	relayTotal.WithLabelValues("pull").Add(float64(len(envs)))
	glog.V(3).Infof("mailbox %s: %d envelopes pulled", box, len(envs))

	w.Header().Set("Content-Type", pltype.JSON)
	_, _ = w.Write(data)
}

// Serve runs the HTTP server until the ctx is done, and shuts it down
// gracefully.
func Serve(ctx context.Context, port uint, handler http.Handler) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		glog.V(1).Infof("HTTP Server on port: %d", port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
