package web

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/internal/config"
	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/pkg/pipeline"
	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/pkg/tts"
)

type statusResponse struct {
	State   string `json:"state"`
	JobID   string `json:"job_id,omitempty"`
	Message string `json:"message,omitempty"`
}

func statusPayload(st pipeline.Status) statusResponse {
	return statusResponse{
		State:   st.State.String(),
		JobID:   st.JobID,
		Message: st.Message,
	}
}

// handleStatus returns the worker's most recent status.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(statusPayload(s.worker.Status()))
}

// handleDevices returns the available playback devices.
func (s *Server) handleDevices(c *fiber.Ctx) error {
	devices, err := s.listDevices()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(devices)
}

// handleVoices returns the known voice identifiers.
func (s *Server) handleVoices(c *fiber.Ctx) error {
	return c.JSON(tts.Voices())
}

func (s *Server) handleGetConfig(c *fiber.Ctx) error {
	return c.JSON(s.store.Get())
}

func (s *Server) handlePutConfig(c *fiber.Ctx) error {
	// Parse over a copy of the current document so a partial body keeps
	// the untouched fields; the shared document is only replaced under
	// the store's lock after validation.
	updated := s.store.Get()
	if err := c.BodyParser(&updated); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid config body",
		})
	}
	if updated.Voice != "" && !tts.ValidVoice(updated.Voice) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown voice: " + updated.Voice,
		})
	}

	err := s.store.Update(func(cfg *config.Config) error {
		*cfg = updated
		return nil
	})
	if err != nil {
		s.logger.Error("config save failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(updated)
}

type speakRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// handleSpeak enqueues a synthesis job.
func (s *Server) handleSpeak(c *fiber.Ctx) error {
	var req speakRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := s.worker.Submit(req.Text, req.Voice); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"accepted": true,
	})
}

type recordRequest struct {
	DurationSeconds int    `json:"duration_seconds"`
	Voice           string `json:"voice"`
}

// handleRecord starts a record-transcribe-speak cycle in the
// background and returns immediately; progress arrives over the
// status websocket.
func (s *Server) handleRecord(c *fiber.Ctx) error {
	if s.dictation == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "no speech recognizer configured",
		})
	}

	var req recordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.DurationSeconds <= 0 {
		req.DurationSeconds = 5
	}

	go func() {
		dur := time.Duration(req.DurationSeconds) * time.Second
		if _, err := s.dictation.RecordAndSubmit(context.Background(), dur, req.Voice); err != nil {
			s.logger.Error("dictation failed", "error", err)
		}
	}()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"recording_seconds": req.DurationSeconds,
	})
}
