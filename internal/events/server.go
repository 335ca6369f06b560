// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/nats-io/nats-server/v2/server"
)

// embeddedReadyTimeout bounds how long startup waits for the listener.
const embeddedReadyTimeout = 10 * time.Second

// EmbeddedServer runs NATS inside the process for single-node deployments.
// Only core NATS is enabled: invalidation events are not persisted.
type EmbeddedServer struct {
	ns *server.Server
}

// NewEmbeddedServer listens on host:port (port -1 picks a free one) and
// blocks until clients can connect.
func NewEmbeddedServer(host string, port int, logger watermill.LoggerAdapter) (*EmbeddedServer, error) {
	ns, err := server.NewServer(&server.Options{
		ServerName: "cinematch-events",
		Host:       host,
		Port:       port,
		NoLog:      true,
		NoSigs:     true,
		MaxPayload: 64 * 1024,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedded NATS server: %w", err)
	}
	if logger != nil {
		ns.SetLoggerV2(natsLogger{logger.With(watermill.LogFields{"component": "nats-server"})}, false, false, false)
	}

	go ns.Start()
	if !ns.ReadyForConnections(embeddedReadyTimeout) {
		ns.Shutdown()
		return nil, errors.New("embedded NATS server did not become ready")
	}
	return &EmbeddedServer{ns: ns}, nil
}

// ClientURL is the nats:// URL clients dial.
func (s *EmbeddedServer) ClientURL() string {
	return s.ns.ClientURL()
}

// IsRunning reports whether the server still accepts clients.
func (s *EmbeddedServer) IsRunning() bool {
	return s.ns.Running()
}

// Shutdown stops the server and waits for its goroutines.
func (s *EmbeddedServer) Shutdown() {
	s.ns.Shutdown()
	s.ns.WaitForShutdown()
}

// natsLogger forwards nats-server logs to a Watermill logger.
type natsLogger struct {
	l watermill.LoggerAdapter
}

func (n natsLogger) Noticef(format string, v ...any) {
	n.l.Info(fmt.Sprintf(format, v...), nil)
}

func (n natsLogger) Warnf(format string, v ...any) {
	n.l.Info(fmt.Sprintf(format, v...), watermill.LogFields{"severity": "warn"})
}

func (n natsLogger) Errorf(format string, v ...any) {
	n.l.Error("nats-server error", fmt.Errorf(format, v...), nil)
}

func (n natsLogger) Fatalf(format string, v ...any) {
	n.l.Error("nats-server fatal", fmt.Errorf(format, v...), nil)
}

func (n natsLogger) Debugf(format string, v ...any) {
	n.l.Debug(fmt.Sprintf(format, v...), nil)
}

func (n natsLogger) Tracef(format string, v ...any) {
	n.l.Trace(fmt.Sprintf(format, v...), nil)
}
