package ipc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"time"
)

// Handler processes a received envelope. Return nil to send no reply.
type Handler func(env Envelope) (*Envelope, error)

// Connection serves one host (one colony). Handlers run on the serving
// goroutine, so ticks from a host are processed strictly in order.
type Connection struct {
	conn     net.Conn
	handlers map[string]Handler
	Session  string

	handled int
	failed  int
}

func NewConnection(conn net.Conn, handlers map[string]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{conn: conn, handlers: handlers}
}

func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

// Serve reads frames until the host disconnects or ctx is cancelled, and
// closes the connection on return. A failed handler answers with an error
// frame so the host never waits on a reply that is not coming.
func (c *Connection) Serve(ctx context.Context) {
	start := time.Now()
	stop := context.AfterFunc(ctx, func() { c.conn.Close() })
	defer func() {
		stop()
		c.conn.Close()
		slog.Info("connection closed", "session", c.Session, "handled", c.handled, "failed", c.failed, "uptime", time.Since(start).Round(time.Second))
	}()

	for {
		env, err := ReadEnvelope(c.conn)
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				slog.Warn("connection read failed", "session", c.Session, "error", err)
			}
			return
		}

		reply := c.dispatch(env)
		if reply == nil {
			continue
		}
		if err := WriteEnvelope(c.conn, *reply); err != nil {
			slog.Error("failed to send reply", "type", reply.Type, "session", c.Session, "error", err)
			return
		}
	}
}

func (c *Connection) dispatch(env Envelope) *Envelope {
	handler, ok := c.handlers[env.Type]
	if !ok {
		slog.Warn("no handler for message type", "type", env.Type, "session", c.Session)
		return nil
	}

	began := time.Now()
	reply, err := handler(env)
	if err != nil {
		c.failed++
		slog.Error("handler error", "type", env.Type, "session", c.Session, "error", err)
		fail, encErr := NewEnvelope(TypeError, ErrorMessage{Type: env.Type, Error: err.Error()})
		if encErr != nil {
			return nil
		}
		return &fail
	}
	c.handled++
	slog.Debug("message handled", "type", env.Type, "session", c.Session, "took", time.Since(began))
	return reply
}
