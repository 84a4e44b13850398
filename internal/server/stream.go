package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Kavirubc/tplcheck/internal/pipeline"
	"github.com/Kavirubc/tplcheck/internal/sheet"
	"github.com/Kavirubc/tplcheck/internal/storage"
	"github.com/Kavirubc/tplcheck/pkg/models"
)

const (
	wsWriteWait = 10 * time.Second
	// Close frame payloads are limited to 125 bytes, two of which hold the code.
	wsMaxCloseReason = 123
)

// newRun builds the pipeline for upload and locks its output name.
// The caller must invoke the returned unlock once the run ends.
func (s *Server) newRun(upload string) (*pipeline.Pipeline, func()) {
	dataset := pipeline.OutputName(upload, s.cfg.Output.Suffix)
	unlock := s.locks.Lock(dataset)

	out := pipeline.NewOutput(s.store, dataset, s.cfg.Output.ChartName)
	logger := s.logger.With(zap.String("upload", upload), zap.String("dataset", dataset))
	return pipeline.New(s.proc, out, s.cfg.Pipeline.BatchSize, logger), unlock
}

// streamNDJSON writes one JSON line per progress event, flushing after each.
// A failed run aborts the response so the client sees a truncated stream.
func (s *Server) streamNDJSON(w http.ResponseWriter, r *http.Request, upload string, rows []models.Row) {
	p, unlock := s.newRun(upload)
	defer unlock()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	flush := func() {
		if flusher != nil {
			flusher.Flush()
		}
	}
	flush()

	enc := json.NewEncoder(w)
	for ev, err := range p.Run(r.Context(), rows) {
		if err != nil {
			s.logger.Error("run failed", zap.String("upload", upload), zap.Error(err))
			panic(http.ErrAbortHandler)
		}
		if err := enc.Encode(ev); err != nil {
			s.logger.Warn("client went away", zap.String("upload", upload), zap.Error(err))
			return
		}
		flush()
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// handleProcessWS re-runs a stored upload and streams its events as websocket messages.
// A failed run closes the socket with code 1011 and the error text.
func (s *Server) handleProcessWS(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")
	data, ok := s.load(w, r, name, "File not found")
	if !ok {
		return
	}
	rows, err := sheet.Decode(bytes.NewReader(data))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	upload, _ := storage.CleanName(name)

	upgrader := wsUpgrader
	upgrader.CheckOrigin = func(r *http.Request) bool {
		return originAllowed(s.cfg.Server.AllowedOrigins, r.Header.Get("Origin"))
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The client never sends data; a read error means it has gone away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	p, unlock := s.newRun(upload)
	defer unlock()

	for ev, err := range p.Run(ctx, rows) {
		if err != nil {
			s.logger.Error("run failed", zap.String("upload", upload), zap.Error(err))
			closeWS(conn, websocket.CloseInternalServerErr, err.Error())
			return
		}
		if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
			return
		}
		if err := conn.WriteJSON(ev); err != nil {
			if !errors.Is(err, context.Canceled) {
				s.logger.Warn("websocket write failed", zap.String("upload", upload), zap.Error(err))
			}
			return
		}
	}
	closeWS(conn, websocket.CloseNormalClosure, "")
}

func closeWS(conn *websocket.Conn, code int, reason string) {
	if len(reason) > wsMaxCloseReason {
		reason = strings.ToValidUTF8(reason[:wsMaxCloseReason], "")
	}
	msg := websocket.FormatCloseMessage(code, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsWriteWait))
}
