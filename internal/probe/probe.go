// Package probe runs the connect, send, receive, close sequence against a
// WebSocket server.
//
// A run never retries and never times out on the exchange itself: if the
// server accepts the connection but stays silent, Run blocks until its
// context is cancelled.
package probe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"wstester/internal/shared/logger"
	"wstester/internal/shared/types"
)

// closeGrace bounds how long the close frame may take to write.
const closeGrace = time.Second

// Result describes one completed (or partially completed) run.
type Result struct {
	RunID       string
	Target      string
	Payload     string
	Reply       []byte
	MessageType int
	Handshake   time.Duration // dial until upgrade completed
	RoundTrip   time.Duration // send until reply read

	// Wire bytes, including the HTTP upgrade and frame headers.
	BytesSent     uint64
	BytesReceived uint64
}

// ReplyText returns the received message as a string.
func (r *Result) ReplyText() string {
	return string(r.Reply)
}

// Prober owns the dialer configuration. It keeps no connection between runs.
type Prober struct {
	cfg    types.ProbeConf
	dialer *websocket.Dialer
	logger zerolog.Logger
}

// New 根据 ProbeConf 创建一个 Prober。
func New(cfg types.ProbeConf) (*Prober, error) {
	dialer, err := newDialer(cfg.HandshakeTimeout, cfg.SocksAddr)
	if err != nil {
		return nil, err
	}
	return &Prober{
		cfg:    cfg,
		dialer: dialer,
		logger: logger.WithComponent("probe"),
	}, nil
}

// Run opens a fresh connection, sends payload as one text message, waits for
// one message and closes the connection.
//
// The returned Result is never nil; on error it holds whatever was observed
// before the failure.
func (p *Prober) Run(ctx context.Context, payload string) (*Result, error) {
	res := &Result{
		RunID:   uuid.NewString(),
		Target:  p.cfg.URL,
		Payload: payload,
	}
	log := p.logger.With().Str("run_id", res.RunID).Str("url", p.cfg.URL).Logger()

	var tr traffic
	defer func() {
		res.BytesSent = tr.uplink.Load()
		res.BytesReceived = tr.downlink.Load()
	}()

	start := time.Now()
	conn, err := dial(ctx, countingDialer(p.dialer, &tr), p.cfg.URL)
	if err != nil {
		log.Debug().Err(err).Msg("dial failed, nothing sent")
		return res, err
	}
	res.Handshake = time.Since(start)
	log.Debug().Str("remote_addr", conn.RemoteAddr().String()).Dur("handshake", res.Handshake).Msg("connected")

	var once sync.Once
	release := func() {
		once.Do(func() {
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGrace)); err != nil {
				log.Debug().Err(err).Msg("close frame not sent")
			}
			if err := conn.Close(); err != nil {
				log.Debug().Err(err).Msg("close")
			}
		})
	}
	defer release()

	// Cancellation is the only way out of a blocked read.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			release()
		case <-done:
		}
	}()

	sent := time.Now()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
		return res, fmt.Errorf("%w: %w", ErrSend, stageErr(ctx, err))
	}
	log.Debug().Int("bytes", len(payload)).Msg("sent")

	msgType, reply, err := conn.ReadMessage()
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrReceive, stageErr(ctx, err))
	}
	res.RoundTrip = time.Since(sent)
	res.MessageType = msgType
	res.Reply = reply
	log.Debug().Int("bytes", len(reply)).Dur("round_trip", res.RoundTrip).Msg("received")

	return res, nil
}

// stageErr prefers the context error when the connection was torn down
// because of cancellation.
func stageErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
