package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/Kavirubc/tplcheck/internal/sheet"
	"github.com/Kavirubc/tplcheck/internal/storage"
	"github.com/Kavirubc/tplcheck/pkg/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type errorResponse struct {
	Detail string `json:"detail"`
}

type filesResponse struct {
	Files []string `json:"files"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// handleUpload stores an uploaded workbook and streams its processing as NDJSON.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Server.MaxUploadMB > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, int64(s.cfg.Server.MaxUploadMB)<<20)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid upload: %v", err))
		return
	}
	defer file.Close()

	if !strings.HasSuffix(header.Filename, ".xlsx") {
		writeError(w, http.StatusBadRequest, "Only .xlsx files are allowed.")
		return
	}

	name, err := storage.CleanName(header.Filename)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Failed to read upload: %v", err))
		return
	}
	if err := s.store.Put(r.Context(), name, data); err != nil {
		s.logger.Error("failed to store upload", zap.String("file", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to store upload.")
		return
	}

	rows, err := sheet.Decode(bytes.NewReader(data))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrInputFormat) {
			status = http.StatusBadRequest
		}
		writeError(w, status, fmt.Sprintf("Error processing file: %v", err))
		return
	}

	s.logger.Info("upload accepted", zap.String("file", name), zap.Int("rows", len(rows)))
	s.streamNDJSON(w, r, name, rows)
}

// handleDownload serves a stored result workbook.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")
	data, ok := s.load(w, r, name, "File not found")
	if !ok {
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": path.Base(name)}))
	_, _ = w.Write(data)
}

// handlePlot serves the chart of the most recent run.
func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	data, ok := s.load(w, r, s.cfg.Output.ChartName, "Plot not found")
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(data)
}

// handleListFiles lists every stored object.
func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list files", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to list files.")
		return
	}
	writeJSON(w, http.StatusOK, filesResponse{Files: names})
}

// handleRawUpload serves any stored object as-is.
func (s *Server) handleRawUpload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")
	data, ok := s.load(w, r, name, "File not found")
	if !ok {
		return
	}
	ctype := mime.TypeByExtension(path.Ext(name))
	if ctype == "" {
		ctype = http.DetectContentType(data)
	}
	w.Header().Set("Content-Type", ctype)
	_, _ = w.Write(data)
}

// load fetches name from the store, writing a 404 or 500 and returning false on failure.
func (s *Server) load(w http.ResponseWriter, r *http.Request, name, notFound string) ([]byte, bool) {
	data, err := s.store.Get(r.Context(), name)
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrInvalidName):
		writeError(w, http.StatusNotFound, notFound)
		return nil, false
	case err != nil:
		s.logger.Error("failed to read object", zap.String("file", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to read file.")
		return nil, false
	}
	return data, true
}
