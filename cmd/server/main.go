package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/polydraw/polydraw/backend-go/internal/auth"
	"github.com/polydraw/polydraw/backend-go/internal/collab"
	"github.com/polydraw/polydraw/backend-go/internal/config"
	"github.com/polydraw/polydraw/backend-go/internal/db"
	"github.com/polydraw/polydraw/backend-go/internal/db/dbgen"
	"github.com/polydraw/polydraw/backend-go/internal/document"
	"github.com/polydraw/polydraw/backend-go/internal/drawing"
	mw "github.com/polydraw/polydraw/backend-go/internal/middleware"
	"github.com/polydraw/polydraw/backend-go/internal/transfer"
)

// Playground drawing allows anonymous access and is never persisted.
const playgroundDrawingID = "drw_playground"

// playgroundDocs serves the playground from the sample document and forwards
// every other drawing to the database.
type playgroundDocs struct {
	collab.Documents
}

func (p playgroundDocs) LoadDocument(ctx context.Context, drawingID string) (*document.Document, error) {
	if drawingID == playgroundDrawingID {
		return document.NewSampleDocument(drawingID), nil
	}
	return p.Documents.LoadDocument(ctx, drawingID)
}

func (p playgroundDocs) StoreDocument(ctx context.Context, drawingID string, doc *document.Document) (int, error) {
	if drawingID == playgroundDrawingID {
		return 0, nil
	}
	return p.Documents.StoreDocument(ctx, drawingID, doc)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		slog.Error("migrate database", "error", err)
		os.Exit(1)
	}

	queries := dbgen.New(pool)

	authService := auth.NewService(queries, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	drawingService := drawing.NewService(queries)
	drawingHandler := drawing.NewHandler(drawingService, cfg.MaxImportBytes)
	transferHandler := transfer.NewHandler(drawingService, cfg.MaxImportBytes)

	hub := collab.NewHub(playgroundDocs{drawingService}, collab.WithAutosaveInterval(cfg.AutosaveInterval))
	go hub.Run()

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := pool.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"database unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)

	api.HandleFunc("/me", authHandler.Me).Methods("GET")
	api.HandleFunc("/drawings", drawingHandler.List).Methods("GET")
	api.HandleFunc("/drawings", drawingHandler.Create).Methods("POST")
	api.HandleFunc("/drawings/{drawingId}", drawingHandler.Get).Methods("GET")
	api.HandleFunc("/drawings/{drawingId}", drawingHandler.Delete).Methods("DELETE")
	api.HandleFunc("/drawings/{drawingId}/document", drawingHandler.GetDocument).Methods("GET")
	api.HandleFunc("/drawings/{drawingId}/document", drawingHandler.PutDocument).Methods("PUT")
	api.HandleFunc("/drawings/{drawingId}/members", drawingHandler.ListMembers).Methods("GET")
	api.HandleFunc("/drawings/{drawingId}/members", drawingHandler.Invite).Methods("POST")
	api.HandleFunc("/drawings/{drawingId}/members/{userId}", drawingHandler.RemoveMember).Methods("DELETE")
	api.HandleFunc("/drawings/{drawingId}/download", transferHandler.Download).Methods("GET")
	api.HandleFunc("/drawings/{drawingId}/import", transferHandler.Import).Methods("POST")

	// WebSocket endpoint
	originHosts := cfg.OriginHosts()
	r.HandleFunc("/ws/drawing/{drawingId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, drawingService, originHosts)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mw.CORS(cfg.Origins())(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop hub first to save all dirty drawings
		slog.Info("saving open drawings")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *collab.Hub, authSvc *auth.Service, drawings *drawing.Service, originHosts []string) {
	drawingID := mux.Vars(r)["drawingId"]

	var userID, displayName string
	canEdit := true

	if drawingID == playgroundDrawingID {
		userID = "anon-" + uuid.New().String()[:8]
		displayName = "Anonymous"
	} else {
		// Auth via query param, browsers cannot set headers on websocket upgrades
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		var err error
		userID, err = authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		canEdit, err = drawings.CanEdit(r.Context(), drawingID, userID)
		if err != nil {
			if errors.Is(err, drawing.ErrNotMember) {
				http.Error(w, "not a drawing member", http.StatusForbidden)
				return
			}
			slog.Error("check membership", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		user, err := authSvc.GetUser(r.Context(), userID)
		if err != nil {
			http.Error(w, "user not found", http.StatusInternalServerError)
			return
		}
		displayName = user.DisplayName
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originHosts,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := collab.NewClient(hub, conn, userID, displayName, drawingID, uuid.New().String(), canEdit)
	if err := hub.Register(client); err != nil {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
