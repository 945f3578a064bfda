package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/JonMunkholm/stacktable/internal/core"
	"github.com/JonMunkholm/stacktable/internal/logging"
	"github.com/JonMunkholm/stacktable/internal/web/templates"
	"github.com/go-chi/chi/v5"
)

// formOverhead is added to the input limit for form and JSON encoding.
const formOverhead = 64 * 1024

// ConvertRequest is the JSON body accepted by POST /api/convert.
type ConvertRequest struct {
	Text string `json:"text"`
}

// ConvertResponse describes a finished conversion.
type ConvertResponse struct {
	ID             string   `json:"id"`
	Data           string   `json:"data"`
	Message        string   `json:"message"`
	SourceRows     int      `json:"source_rows"`
	Rows           int      `json:"rows"`
	Columns        int      `json:"columns"`
	StackedColumns []string `json:"stacked_columns"`
	PaddedColumn   string   `json:"padded_column"`
	CSVURL         string   `json:"csv_url"`
	XLSXURL        string   `json:"xlsx_url"`
}

// handleIndex renders the converter page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Index(s.service.MaxInputSize()).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render index", "error", err)
	}
}

// handleHealth reports liveness plus limiter and store state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":  "ok",
		"service": s.service.Status(),
	})
}

// handleConvert runs the pipeline over the submitted text.
//
// The text may arrive as JSON {"text": ...}, as a form field "text", as an
// uploaded file in the multipart field "file", or as a text/plain body.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.service.MaxInputSize()+formOverhead)

	input, err := convertInput(r)
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}
	if closer, ok := input.(io.Closer); ok {
		defer closer.Close()
	}

	conv, err := s.service.Convert(withRequestMetadata(r.Context(), r), input)
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	resp := buildConvertResponse(conv)

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := templates.ResultPanel(resultView(resp)).Render(r.Context(), w); err != nil {
			logging.FromContext(r.Context()).Error("render result", "error", err)
		}
		return
	}

	writeJSON(w, resp)
}

// convertInput extracts the text to convert from the request.
func convertInput(r *http.Request) (io.Reader, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		var req ConvertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, fmt.Errorf("%w: decode json: %w", core.ErrInvalidRequest, err)
		}
		return strings.NewReader(req.Text), nil

	case "multipart/form-data":
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			return nil, fmt.Errorf("%w: parse form: %w", core.ErrInvalidRequest, err)
		}
		if file, _, err := r.FormFile("file"); err == nil {
			return file, nil
		}
		return strings.NewReader(r.FormValue("text")), nil

	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: parse form: %w", core.ErrInvalidRequest, err)
		}
		return strings.NewReader(r.PostFormValue("text")), nil

	default:
		return r.Body, nil
	}
}

// handleConversion returns the summary of a stored conversion.
func (s *Server) handleConversion(w http.ResponseWriter, r *http.Request) {
	conv, err := s.service.Conversion(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	writeJSON(w, buildConvertResponse(conv))
}

// handleDownload serves a stored conversion as CSV or XLSX.
// The file name carries the time of the download, like a save dialog would.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(chi.URLParam(r, "format"))
	if format != core.FormatCSV && format != core.FormatXLSX {
		s.respondError(w, r, fmt.Errorf("%w %q", core.ErrUnsupportedFormat, format), http.StatusBadRequest)
		return
	}

	conv, err := s.service.Conversion(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	var buf bytes.Buffer
	if err := core.WriteTable(&buf, format, conv.Result.Stacked); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	filename := core.ExportFilename(core.ExportPrefix, format, time.Now())
	w.Header().Set("Content-Type", core.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(buf.Bytes())

	logging.WithFields(r.Context(), "conversion_id", conv.ID).Info("conversion downloaded",
		"format", format,
		"bytes", buf.Len(),
	)
}

// buildConvertResponse summarises a conversion for the client.
func buildConvertResponse(conv *core.Conversion) ConvertResponse {
	res := conv.Result

	stackedNames := make([]string, 0, len(res.StackedColumns))
	for _, idx := range res.StackedColumns {
		if idx < len(res.Source.Headers) {
			stackedNames = append(stackedNames, res.Source.Headers[idx])
		}
	}

	headers := res.Stacked.Headers
	return ConvertResponse{
		ID:             conv.ID,
		Data:           core.FormatTSV(headers, res.Stacked.Rows),
		Message:        fmt.Sprintf("Converted: %d rows -> %d rows", res.Source.Len(), res.Stacked.Len()),
		SourceRows:     res.Source.Len(),
		Rows:           res.Stacked.Len(),
		Columns:        res.Stacked.Width(),
		StackedColumns: stackedNames,
		PaddedColumn:   headers[len(headers)-1],
		CSVURL:         "/api/conversions/" + conv.ID + "/" + core.FormatCSV,
		XLSXURL:        "/api/conversions/" + conv.ID + "/" + core.FormatXLSX,
	}
}

func resultView(resp ConvertResponse) templates.ResultView {
	return templates.ResultView{
		ID:             resp.ID,
		Data:           resp.Data,
		Message:        resp.Message,
		StackedColumns: resp.StackedColumns,
		CSVURL:         resp.CSVURL,
		XLSXURL:        resp.XLSXURL,
	}
}
