// Package web exposes the speech pipeline over HTTP: a small JSON API
// for submitting text and reading state, plus a websocket stream of
// status updates.
package web

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/internal/config"
	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/internal/log"
	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/pkg/hub"
	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/pkg/pipeline"
	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/pkg/playback"
)

// DeviceLister enumerates playback devices. Defaults to
// playback.ListDevices; substituted in tests.
type DeviceLister func() ([]playback.Device, error)

// Server is the HTTP front end for the pipeline.
type Server struct {
	app    *fiber.App
	port   string
	logger *slog.Logger

	worker    *pipeline.Worker
	dictation *pipeline.Dictation
	store     *config.Store

	listDevices DeviceLister
	statusHub   *hub.Hub
}

// NewServer wires the API around a running worker. The store must be
// the same one the worker snapshots from, so settings edits reach
// subsequent jobs. dictation may be nil when no recognizer is
// configured; the record endpoint then returns an error.
func NewServer(port string, worker *pipeline.Worker, dictation *pipeline.Dictation, store *config.Store) *Server {
	s := &Server{
		port:        port,
		logger:      log.With("component", "web"),
		worker:      worker,
		dictation:   dictation,
		store:       store,
		listDevices: playback.ListDevices,
		statusHub:   hub.New("status"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "text-to-mic",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
	})

	// CORS for local development
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/devices", s.handleDevices)
	api.Get("/voices", s.handleVoices)
	api.Get("/config", s.handleGetConfig)
	api.Put("/config", s.handlePutConfig)
	api.Post("/speak", s.handleSpeak)
	api.Post("/record", s.handleRecord)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	s.app = app
	return s
}

// PublishStatus pushes a status update to websocket subscribers.
// Hand this to the worker as its StatusFunc.
func (s *Server) PublishStatus(st pipeline.Status) {
	if err := s.statusHub.BroadcastJSON(statusPayload(st)); err != nil {
		s.logger.Warn("status broadcast failed", "error", err)
	}
}

// Start runs the server until Shutdown.
func (s *Server) Start() error {
	go s.statusHub.Run()
	s.logger.Info("dashboard listening", "addr", "http://localhost:"+s.port)
	return s.app.Listen(":" + s.port)
}

// Shutdown gracefully stops the web server and its broadcast hub.
func (s *Server) Shutdown() error {
	err := s.app.Shutdown()
	s.statusHub.Stop()
	return err
}

func (s *Server) handleStatusWS(c *websocket.Conn) {
	client := hub.NewClient(s.statusHub, c)
	client.Run()
}
