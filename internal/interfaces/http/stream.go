package http

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/jhoicas/workbench-api/internal/application/dto"
	"github.com/jhoicas/workbench-api/internal/application/workbench"
	"github.com/jhoicas/workbench-api/pkg/broadcast"
	"github.com/jhoicas/workbench-api/pkg/logger"
)

const keepAliveInterval = 15 * time.Second

// StatusSource origen de instantáneas para el stream (lo implementa *workbench.Workbench).
type StatusSource interface {
	Subscribe() (workbench.Status, *broadcast.Subscription[workbench.Status])
}

// StatusStream envía el estado por Server-Sent Events: primero la instantánea actual
// y luego cada cambio. Cada cliente tiene su propia suscripción.
type StatusStream struct {
	source StatusSource
	log    *logger.Logger
}

// NewStatusStream construye el handler del stream.
func NewStatusStream(source StatusSource, log *logger.Logger) *StatusStream {
	if log == nil {
		log = logger.Nop()
	}
	return &StatusStream{source: source, log: log.Component("sse")}
}

// Handle godoc
// @Summary      Stream del estado de la estación (SSE)
// @Tags         workbench
// @Produce      text/event-stream
// @Success      200  {object}  dto.WorkbenchStatusResponse
// @Router       /api/workbench/status/stream [get]
func (s *StatusStream) Handle(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	initial, sub := s.source.Subscribe()
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer sub.Close()
		s.log.Info().Msg("cliente SSE conectado")
		defer func() {
			s.log.Info().Int("dropped", sub.Dropped()).Msg("cliente SSE desconectado")
		}()

		if err := writeEvent(w, initial); err != nil {
			return
		}
		for {
			ctx, cancel := context.WithTimeout(context.Background(), keepAliveInterval)
			st, err := sub.Next(ctx)
			cancel()
			switch {
			case err == nil:
				if err := writeEvent(w, st); err != nil {
					return
				}
			case errors.Is(err, context.DeadlineExceeded):
				// comentario SSE: mantiene viva la conexión y detecta clientes caídos
				if _, err := w.WriteString(": keep-alive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			default:
				return
			}
		}
	}))
	return nil
}

func writeEvent(w *bufio.Writer, st workbench.Status) error {
	payload, err := json.Marshal(dto.FromStatus(st))
	if err != nil {
		return err
	}
	if _, err := w.WriteString("data: "); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	if _, err := w.WriteString("\n\n"); err != nil {
		return err
	}
	return w.Flush()
}
