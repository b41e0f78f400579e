package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nodewire/nodewire/pkg/alias"
	"github.com/nodewire/nodewire/pkg/cache"
	"github.com/nodewire/nodewire/pkg/describe"
	"github.com/nodewire/nodewire/pkg/document"
	"github.com/nodewire/nodewire/pkg/errors"
	"github.com/nodewire/nodewire/pkg/host/memhost"
	"github.com/nodewire/nodewire/pkg/rebuild"
	"github.com/nodewire/nodewire/pkg/render"
)

const maxBodySize = 10 << 20

func readDocument(w http.ResponseWriter, r *http.Request) (document.Document, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	doc, err := document.Read(r.Body)
	if err != nil {
		writeError(w, err)
		return document.Document{}, false
	}
	return doc, true
}

func (s *Server) handleHealthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHealthReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.List(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleValidate runs the fatal pre-checks a rebuild would run, without
// touching any graph.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	doc, ok := readDocument(w, r)
	if !ok {
		return
	}
	if err := doc.Validate(); err != nil {
		writeJSON(w, errorStatus(err), map[string]any{
			"valid": false,
			"error": errors.UserMessage(err),
			"code":  string(errors.GetCode(err)),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"valid": true,
		"nodes": len(doc.Nodes),
		"links": len(doc.Links),
	})
}

// handleNormalize resolves one alias spelling to its canonical
// identifier.
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req struct {
		Scope string `json:"scope"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	canonical, err := alias.Normalize(req.Value, alias.Scope(req.Scope))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"canonical": canonical})
}

// handleDescribe rebuilds the document into a scratch graph and returns
// the text report. Rebuild warnings ride along in a header so the body
// stays plain text.
func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	doc, ok := readDocument(w, r)
	if !ok {
		return
	}

	g := memhost.New(nil)
	report, err := rebuild.Rebuild(r.Context(), doc, g, rebuild.Options{Logger: s.logger})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Rebuild-Warnings", fmt.Sprint(len(report.Warnings)))
	_, _ = w.Write([]byte(describe.Graph(g)))
}

// handleImport rebuilds the document into a scratch graph and returns
// the rebuild report, the dry run of what an editor-side import would
// accept and warn about.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	doc, ok := readDocument(w, r)
	if !ok {
		return
	}

	report, err := rebuild.Rebuild(r.Context(), doc, memhost.New(nil), rebuild.Options{Logger: s.logger})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"report":  report,
		"summary": report.Summary(s.maxItems),
		"clean":   report.Clean(),
	})
}

// handleRender returns the document as a DOT graph, or as SVG with
// ?format=svg.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	doc, ok := readDocument(w, r)
	if !ok {
		return
	}
	if err := doc.Validate(); err != nil {
		writeError(w, err)
		return
	}

	detailed := r.URL.Query().Get("detailed") == "true"
	dot := render.ToDOT(doc, render.Options{Detailed: detailed})

	switch r.URL.Query().Get("format") {
	case "", "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		_, _ = w.Write([]byte(dot))
	case "svg":
		svg, err := s.renderSVG(r, doc, dot, detailed)
		if err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render svg"))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	default:
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "unknown format %q", r.URL.Query().Get("format")))
	}
}

// renderSVG runs graphviz, memoized by document digest. Cache failures
// only cost the memoization, never the request.
func (s *Server) renderSVG(r *http.Request, doc document.Document, dot string, detailed bool) ([]byte, error) {
	digest, err := doc.Digest()
	if err != nil {
		return nil, err
	}
	key := cache.RenderKey(digest, "svg", detailed)

	if svg, ok, err := s.cache.Get(r.Context(), key); err == nil && ok {
		return svg, nil
	}
	svg, err := render.SVG(r.Context(), dot)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(r.Context(), key, svg, time.Hour); err != nil {
		s.logger.Debug("render cache set failed", "err", err)
	}
	return svg, nil
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	keys, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"keys": keys})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	entry, err := s.store.Get(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}
	if entry == nil {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no document named %q", key))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = document.Write(entry.Document, w)
}

func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	doc, ok := readDocument(w, r)
	if !ok {
		return
	}
	if err := doc.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.Set(r.Context(), key, doc); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"key":   key,
		"nodes": len(doc.Nodes),
		"links": len(doc.Links),
	})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := s.store.Delete(r.Context(), key); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
