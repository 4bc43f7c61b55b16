package ui

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"merchhold/app"
	"merchhold/domain/schema"
	"merchhold/domain/table"
	"merchhold/internal/errors"
	"merchhold/ports"
)

const maxUploadBytes = 32 << 20

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := s.tables.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	type tableInfo struct {
		Name     string `json:"name"`
		Columns  int    `json:"columns"`
		RowCount int    `json:"rowCount"`
	}
	out := make([]tableInfo, 0, len(tables))
	for _, t := range tables {
		out = append(out, tableInfo{Name: t.Name, Columns: len(t.Columns), RowCount: t.RowCount()})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUploadTable(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, errors.InvalidInput("multipart form expected"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, errors.InvalidInput("file field is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		s.writeError(w, errors.InvalidInput("failed to read upload"))
		return
	}

	tables, err := s.ingester.IngestBytes(header.Filename, data)
	if err != nil {
		s.writeError(w, errors.InvalidInput(err.Error()))
		return
	}
	for _, t := range tables {
		if err := s.tables.Put(r.Context(), t); err != nil {
			s.writeError(w, err)
			return
		}
	}
	s.records.Invalidate()

	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	s.writeJSON(w, http.StatusCreated, map[string]interface{}{"loaded": names})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")
	field := schema.Field(q.Get("field"))
	if field == "" {
		field = schema.FieldIdentifier
	}
	if !field.IsValid() {
		s.writeError(w, errors.InvalidInput("unknown field "+string(field)))
		return
	}

	// The primary flow searches hold tables; scope=all widens to every
	// loaded table for the flagging flow.
	eligible := table.NameContains("hold")
	if q.Get("scope") == "all" {
		eligible = table.AllTables
	}

	matches, err := s.records.Search(r.Context(), q.Get("profile"), query, field, eligible)
	if err != nil {
		s.writeError(w, err)
		return
	}

	type hit struct {
		SourceTable string            `json:"sourceTable"`
		Record      map[string]string `json:"record"`
	}
	out := make([]hit, 0, len(matches))
	for _, m := range matches {
		cells := make(map[string]string, m.Record.Len())
		for _, col := range m.Record.Columns() {
			cells[col] = m.Record.Value(col).String()
		}
		out = append(out, hit{SourceTable: m.SourceTable, Record: cells})
	}
	s.writeJSON(w, http.StatusOK, out)
}

type reconcileRequest struct {
	ProfileID string `json:"profileId"`
	Table     string `json:"table"`
	RowKey    string `json:"rowKey"`
}

func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	var req reconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.InvalidInput("invalid JSON body"))
		return
	}

	// The primary record is pinned by exact identifier equality; the
	// substring search is only for discovery, where a short key could
	// land on a different merchant whose id merely contains it.
	match, err := s.records.Locate(r.Context(), req.ProfileID, req.Table, req.RowKey)
	if err != nil {
		s.writeError(w, err)
		return
	}

	fields, err := s.records.Reconcile(r.Context(), req.ProfileID, match)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, fields)
}

type updateRequest struct {
	ResourceKind string                  `json:"resourceKind"`
	RowKey       string                  `json:"rowKey"`
	Patch        map[schema.Field]string `json:"patch"`
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.InvalidInput("invalid JSON body"))
		return
	}
	kind, err := parseResourceKind(req.ResourceKind)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.updater.Update(r.Context(), app.UpdateRequest{
		ResourceKind: kind,
		RowKey:       req.RowKey,
		Patch:        req.Patch,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

type appendRequest struct {
	ResourceKind string                    `json:"resourceKind"`
	Records      []map[schema.Field]string `json:"records"`
}

func (s *Server) handleAppend(w http.ResponseWriter, r *http.Request) {
	var req appendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.InvalidInput("invalid JSON body"))
		return
	}
	kind, err := parseResourceKind(req.ResourceKind)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.updater.Append(r.Context(), kind, req.Records)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	eligible := table.AllTables
	if r.URL.Query().Get("scope") == "hold" {
		eligible = table.NameContains("hold")
	}
	summaries, err := s.reports.Summarize(r.Context(), eligible)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleExportConfig(w http.ResponseWriter, r *http.Request) {
	data, err := s.profiles.ExportConfig(r.Context(), r.URL.Query().Get("activeProfileId"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="merchhold-config.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleImportConfig(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		s.writeError(w, errors.InvalidInput("failed to read body"))
		return
	}
	doc, err := s.profiles.ImportConfig(r.Context(), data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	// Imported profiles can carry mapping overrides; the cached index
	// must not keep resolving columns with the pre-import profile.
	s.records.Invalidate()
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"imported":        len(doc.Profiles),
		"activeProfileId": doc.ActiveProfileID,
	})
}

type mappingRequest struct {
	Table  string       `json:"table"`
	Field  schema.Field `json:"field"`
	Column string       `json:"column"`
}

func (s *Server) handleSaveMapping(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profileID")
	var req mappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.InvalidInput("invalid JSON body"))
		return
	}
	if !req.Field.IsValid() {
		s.writeError(w, errors.InvalidInput("unknown field "+string(req.Field)))
		return
	}
	if err := s.records.SaveMapping(r.Context(), profileID, req.Table, req.Field, req.Column); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

func parseResourceKind(raw string) (ports.ResourceKind, error) {
	switch raw {
	case string(ports.ResourceHold):
		return ports.ResourceHold, nil
	case string(ports.ResourceRM):
		return ports.ResourceRM, nil
	default:
		return "", errors.InvalidInput("resourceKind must be HOLD or RM")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			s.log.Error("[Server] failed to encode response: %v", err)
		}
	}
}

// writeError maps an error code onto an HTTP status and renders the
// actionable context the services attach.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput, errors.CodeInvalidConfig:
		status = http.StatusBadRequest
	case errors.CodeRowNotFound, errors.CodeColumnNotFound, errors.CodeNotFound, errors.CodeNoLinkedResource:
		status = http.StatusNotFound
	case errors.CodePermissionDenied:
		status = http.StatusForbidden
	case errors.CodeAmbiguousSheet:
		status = http.StatusConflict
	case errors.CodeResourceUnavailable:
		status = http.StatusServiceUnavailable
	case errors.CodeWriteError:
		status = http.StatusBadGateway
	}
	s.writeJSON(w, status, map[string]string{
		"code":  errors.GetCode(err),
		"error": err.Error(),
	})
}
