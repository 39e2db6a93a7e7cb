// Package server exposes the thin HTTP front-end: it accepts tasks into
// the live scheduler and reports queue state. It never runs the batch
// engine and never executes payloads.
package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/serverless-sim/serverless-sim/sim"
)

// InvokeRequest is the POST /invoke body. DeadlineOffset is seconds from
// now; it defaults to 10 when absent or non-positive.
type InvokeRequest struct {
	Name           string   `json:"name"`
	FunctionName   string   `json:"function_name"`
	EstRuntime     float64  `json:"est_runtime"`
	DeadlineOffset float64  `json:"deadline_offset"`
	Args           []string `json:"args"`
	Trigger        string   `json:"trigger"`
	MemoryMB       int      `json:"memory_mb"`
}

// QueuedTask is one entry of the GET /status response, priority-ordered.
type QueuedTask struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	FunctionName string  `json:"function_name"`
	Deadline     float64 `json:"deadline"`
	EstRuntime   float64 `json:"est_runtime"`
}

// Server wraps the fiber app and the live-mode scheduler.
type Server struct {
	app   *fiber.App
	sched *sim.Scheduler
}

// New builds the HTTP front-end around a live-mode scheduler.
func New(sched *sim.Scheduler) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "serverless-sim",
			DisableStartupMessage: true,
		}),
		sched: sched,
	}
	s.app.Use(recover.New())

	s.app.Post("/invoke", s.handleInvoke)
	s.app.Get("/status", s.handleStatus)
	s.app.Get("/healthz", s.handleHealthz)
	return s
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves until Shutdown.
func (s *Server) Listen(addr string) error {
	logrus.Infof("HTTP front-end listening on %s", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleInvoke(c *fiber.Ctx) error {
	var req InvokeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body"})
	}

	now := float64(time.Now().UnixNano()) / 1e9
	offset := req.DeadlineOffset
	if offset <= 0 {
		offset = 10
	}
	est := req.EstRuntime
	if est <= 0 {
		est = 1
	}
	trigger := req.Trigger
	if trigger == "" {
		trigger = "HTTP"
	}
	memory := req.MemoryMB
	if memory <= 0 {
		memory = 256
	}
	function := req.FunctionName
	if function == "" {
		function = req.Name
	}

	task := &sim.Task{
		ID:           uuid.NewString(),
		FunctionName: function,
		ArrivalTime:  now,
		Deadline:     now + offset,
		Payload: sim.Payload{
			Name:       req.Name,
			EstRuntime: est,
			Args:       req.Args,
		},
		Metadata: sim.Metadata{
			Trigger:  trigger,
			MemoryMB: memory,
		},
	}
	if err := task.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	s.sched.Submit(task)
	return c.JSON(fiber.Map{
		"message": "task queued",
		"id":      task.ID,
	})
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	pending := s.sched.Pending()
	queued := make([]QueuedTask, len(pending))
	for i, t := range pending {
		queued[i] = QueuedTask{
			ID:           t.ID,
			Name:         t.Name(),
			FunctionName: t.FunctionName,
			Deadline:     t.Deadline,
			EstRuntime:   t.Payload.EstRuntime,
		}
	}
	return c.JSON(fiber.Map{"queued_tasks": queued})
}

func (s *Server) handleHealthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "pending": s.sched.Len()})
}
