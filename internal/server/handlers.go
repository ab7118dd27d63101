package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Alarion239/studentrecords/internal/logger"
	"github.com/Alarion239/studentrecords/pkg/sheet"
)

const (
	maxUploadBytes = 10 << 20
	xlsxMIME       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.opts.Pinger != nil {
		if err := s.opts.Pinger.Ping(r.Context()); err != nil {
			logger.LogError("Health check failed", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	students, err := s.svc.Students(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := sheet.WriteStudents(&buf, students); err != nil {
		logger.LogError("Failed to export students", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to build workbook"})
		return
	}

	filename := fmt.Sprintf("students-%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", xlsxMIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.LogError("Failed to write workbook", err)
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field \"file\" is required"})
		return
	}
	defer file.Close()

	rows, err := sheet.ReadStudents(file)
	if err != nil {
		msg := "file is not a readable xlsx workbook"
		if errors.Is(err, sheet.ErrNoHeader) {
			msg = err.Error()
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	res, err := s.svc.ImportStudents(r.Context(), rows)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": err.Error(), "imported": res.Imported, "failed": res.Failed})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.LogError("Failed to encode response", err)
	}
}
