// Package api exposes the relay's HTTP surface and dispatches each request
// to the actor owning the named tenant.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/relaydesk/discord-relay/internal/actor"
	"github.com/relaydesk/discord-relay/internal/discord"
)

const maxBodySize = 1 << 20

// Handler is the relay HTTP handler.
type Handler struct {
	actors   *actor.Registry
	upstream *discord.Client
}

func New(actors *actor.Registry, upstream *discord.Client) *Handler {
	return &Handler{actors: actors, upstream: upstream}
}

// Router returns the chi router with all routes registered.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors)

	r.Get("/healthz", h.Healthz)
	r.Post("/init", h.Init)
	r.Post("/check", h.Check)
	r.Get("/tenants/{appID}/public-key", h.PublicKey)
	r.Post("/interactions", h.Interactions)
	r.Get("/websocket/{appID}", h.WebSocket)

	// Anything else is passed through to the upstream API verbatim.
	r.NotFound(h.Proxy)

	return r
}

// cors injects the browser-facing headers on every response and answers
// preflight requests directly.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, Authorization, X-Signature-Ed25519, X-Signature-Timestamp")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Healthz reports liveness.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// Init stores a tenant's credentials and registers its default command.
func (h *Handler) Init(w http.ResponseWriter, r *http.Request) {
	var req actor.InitRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if req.ApplicationID == "" {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	res, err := h.actors.Get(req.ApplicationID).Initialize(r.Context(), req)
	if err != nil {
		if errors.Is(err, actor.ErrMissingFields) {
			http.Error(w, "Missing required fields", http.StatusBadRequest)
			return
		}
		slog.Error("init failed", "tenant", req.ApplicationID, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Check validates a tenant's stored token against the upstream platform.
// Always HTTP 200; validity is reported in the body.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ApplicationID string `json:"applicationId"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if req.ApplicationID == "" {
		http.Error(w, "Missing application ID", http.StatusBadRequest)
		return
	}

	res := h.actors.Get(req.ApplicationID).CheckStatus(r.Context())
	writeJSON(w, http.StatusOK, res)
}

// PublicKey returns the tenant's webhook verification key.
func (h *Handler) PublicKey(w http.ResponseWriter, r *http.Request) {
	appID := chi.URLParam(r, "appID")

	key, err := h.actors.Get(appID).PublicKey(r.Context())
	if err != nil {
		if errors.Is(err, actor.ErrNotInitialized) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Public key not configured"})
			return
		}
		slog.Error("public key lookup failed", "tenant", appID, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"publicKey": key})
}

// Interactions handles a signed webhook delivery. The tenant key rides in
// the payload itself.
func (h *Handler) Interactions(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	var peek struct {
		ApplicationID string `json:"application_id"`
	}
	json.Unmarshal(body, &peek)
	tenantID := peek.ApplicationID
	if tenantID == "" {
		tenantID = "default"
	}

	resp, err := h.actors.Get(tenantID).HandleInteraction(r.Context(), body,
		r.Header.Get("X-Signature-Ed25519"),
		r.Header.Get("X-Signature-Timestamp"))
	if err != nil {
		if errors.Is(err, actor.ErrUnauthorized) {
			http.Error(w, "Invalid request", http.StatusUnauthorized)
			return
		}
		slog.Error("interaction failed", "tenant", tenantID, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// WebSocket upgrades a realtime bridge connection for a tenant.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	appID := chi.URLParam(r, "appID")
	h.actors.Get(appID).HandleWebSocket(w, r)
}

// Proxy forwards any unrecognized request to the upstream API.
func (h *Handler) Proxy(w http.ResponseWriter, r *http.Request) {
	var body io.Reader
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		body = io.LimitReader(r.Body, maxBodySize)
	}
	status, respBody, err := h.upstream.Proxy(r.Context(), r.Method, r.URL.Path, r.Header, body)
	if err != nil {
		slog.Warn("proxy failed", "method", r.Method, "path", r.URL.Path, "err", err)
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(respBody)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
