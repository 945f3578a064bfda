package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/stacktable/internal/config"
	"github.com/JonMunkholm/stacktable/internal/core"
)

const waferInput = "Lot\tWafer\tNote\nA1\t1,2,3\tx\nA2\t5\ty"

const waferOutput = "Lot\tWafer\tNote\tWafer_Padded\n" +
	"A1\t1\tx\t01\n" +
	"A1\t2\tx\t02\n" +
	"A1\t3\tx\t03\n" +
	"A2\t5\ty\t05"

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			ShutdownTimeout: time.Second,
			RequestTimeout:  5 * time.Second,
		},
		Convert: config.ConvertConfig{
			MaxInputSize:     1024,
			MaxConcurrent:    2,
			MaxWaitTime:      time.Second,
			PadColumn:        "Wafer",
			PadFallbackIndex: 1,
			PadName:          "Wafer_Padded",
			PadWidth:         2,
		},
		Results: config.ResultsConfig{TTL: time.Minute, MaxEntries: 16, SweepInterval: time.Minute},
		Security: config.SecurityConfig{
			EnableCSP: true,
		},
		Logging: config.LoggingConfig{Level: "error", Format: "text"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()

	service, err := core.NewService(cfg)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	s := NewServer(service, cfg)
	t.Cleanup(func() { s.Shutdown(context.Background()) })
	return s
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func postJSON(t *testing.T, s *Server, text string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(ConvertRequest{Text: text})
	req := httptest.NewRequest(http.MethodPost, "/api/convert", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return serve(s, req)
}

func decodeConvert(t *testing.T, rec *httptest.ResponseRecorder) ConvertResponse {
	t.Helper()
	var resp ConvertResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return resp
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v (body %q)", err, rec.Body.String())
	}
	return resp
}

func TestIndex(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Stacked DataTable", "Convert (Stack)", "Save CSV", "Save XLSX", "Clear", "up to 1 KB"} {
		if !strings.Contains(body, want) {
			t.Errorf("index page missing %q", want)
		}
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("Content-Security-Policy header missing")
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Status  string             `json:"status"`
		Service core.ServiceStatus `json:"service"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" || body.Service.Limiter.MaxConcurrent != 2 {
		t.Errorf("health = %+v", body)
	}
}

func TestConvertJSON(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := postJSON(t, s, waferInput)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}

	resp := decodeConvert(t, rec)
	if resp.Data != waferOutput {
		t.Errorf("Data = %q, want %q", resp.Data, waferOutput)
	}
	if resp.Message != "Converted: 2 rows -> 4 rows" {
		t.Errorf("Message = %q", resp.Message)
	}
	if resp.SourceRows != 2 || resp.Rows != 4 || resp.Columns != 4 {
		t.Errorf("counts = (%d, %d, %d), want (2, 4, 4)", resp.SourceRows, resp.Rows, resp.Columns)
	}
	if len(resp.StackedColumns) != 1 || resp.StackedColumns[0] != "Wafer" {
		t.Errorf("StackedColumns = %q, want [Wafer]", resp.StackedColumns)
	}
	if resp.PaddedColumn != "Wafer_Padded" {
		t.Errorf("PaddedColumn = %q", resp.PaddedColumn)
	}
	if resp.CSVURL != "/api/conversions/"+resp.ID+"/csv" {
		t.Errorf("CSVURL = %q", resp.CSVURL)
	}
}

func TestConvertInputForms(t *testing.T) {
	s := newTestServer(t, testConfig())

	form := url.Values{"text": {waferInput}}
	formReq := httptest.NewRequest(http.MethodPost, "/api/convert", strings.NewReader(form.Encode()))
	formReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var mp bytes.Buffer
	mw := multipart.NewWriter(&mp)
	fw, _ := mw.CreateFormFile("file", "paste.tsv")
	fw.Write([]byte(waferInput))
	mw.Close()
	fileReq := httptest.NewRequest(http.MethodPost, "/api/convert", &mp)
	fileReq.Header.Set("Content-Type", mw.FormDataContentType())

	plainReq := httptest.NewRequest(http.MethodPost, "/api/convert", strings.NewReader("\xEF\xBB\xBF"+waferInput))
	plainReq.Header.Set("Content-Type", "text/plain; charset=utf-8")

	for name, req := range map[string]*http.Request{
		"urlencoded": formReq,
		"multipart":  fileReq,
		"plain":      plainReq,
	} {
		t.Run(name, func(t *testing.T) {
			rec := serve(s, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
			}
			if resp := decodeConvert(t, rec); resp.Data != waferOutput {
				t.Errorf("Data = %q, want %q", resp.Data, waferOutput)
			}
		})
	}
}

func TestConvertHTMX(t *testing.T) {
	s := newTestServer(t, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/convert", strings.NewReader(url.Values{"text": {"A\t<b>\n1\t2"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")

	rec := serve(s, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `<textarea id="output"`) {
		t.Errorf("partial missing output area: %q", body)
	}
	if strings.Contains(body, "<b>") || !strings.Contains(body, "&lt;b&gt;") {
		t.Errorf("cell text not escaped: %q", body)
	}
}

func TestConvertErrors(t *testing.T) {
	s := newTestServer(t, testConfig())

	badJSON := httptest.NewRequest(http.MethodPost, "/api/convert", strings.NewReader("{"))
	badJSON.Header.Set("Content-Type", "application/json")

	tooLarge := httptest.NewRequest(http.MethodPost, "/api/convert", strings.NewReader(strings.Repeat("x", 2048)))

	empty := httptest.NewRequest(http.MethodPost, "/api/convert", strings.NewReader("  \n\n"))

	tests := []struct {
		name       string
		req        *http.Request
		wantStatus int
		wantCode   string
	}{
		{"empty input", empty, http.StatusBadRequest, "VAL001"},
		{"bad json", badJSON, http.StatusBadRequest, "VAL004"},
		{"too large", tooLarge, http.StatusRequestEntityTooLarge, "FILE001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, tt.req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := decodeError(t, rec); got.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func TestConversionSummary(t *testing.T) {
	s := newTestServer(t, testConfig())
	created := decodeConvert(t, postJSON(t, s, waferInput))

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/conversions/"+created.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeConvert(t, rec); got.ID != created.ID || got.Data != waferOutput {
		t.Errorf("summary = %+v", got)
	}
}

func TestDownloadCSV(t *testing.T) {
	s := newTestServer(t, testConfig())
	created := decodeConvert(t, postJSON(t, s, waferInput))

	rec := serve(s, httptest.NewRequest(http.MethodGet, created.CSVURL, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
	disposition := rec.Header().Get("Content-Disposition")
	if !strings.HasPrefix(disposition, `attachment; filename="stacked_`) || !strings.HasSuffix(disposition, `.csv"`) {
		t.Errorf("Content-Disposition = %q", disposition)
	}

	want := "\xEF\xBB\xBFLot,Wafer,Note,Wafer_Padded\r\nA1,1,x,01\r\nA1,2,x,02\r\nA1,3,x,03\r\nA2,5,y,05\r\n"
	if got := rec.Body.String(); got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}

func TestDownloadXLSX(t *testing.T) {
	s := newTestServer(t, testConfig())
	created := decodeConvert(t, postJSON(t, s, waferInput))

	rec := serve(s, httptest.NewRequest(http.MethodGet, created.XLSXURL, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	f, err := excelize.OpenReader(rec.Body)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(core.SheetName)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 5 || rows[3][3] != "03" {
		t.Errorf("rows = %q", rows)
	}
}

func TestDownloadErrors(t *testing.T) {
	s := newTestServer(t, testConfig())
	created := decodeConvert(t, postJSON(t, s, waferInput))

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCode   string
	}{
		{"unknown format", "/api/conversions/" + created.ID + "/pdf", http.StatusBadRequest, "FILE002"},
		{"format naming another error", "/api/conversions/" + created.ID + "/input%20is%20empty", http.StatusBadRequest, "FILE002"},
		{"unknown id", "/api/conversions/6f1c2b7e-8a4d-4c1e-9b0a-2d3e4f5a6b7c/csv", http.StatusNotFound, "CNV001"},
		{"malformed id", "/api/conversions/nope/csv", http.StatusNotFound, "CNV001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := decodeError(t, rec); got.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func TestErrorResponseDisplayLine(t *testing.T) {
	s := newTestServer(t, testConfig())
	created := decodeConvert(t, postJSON(t, s, waferInput))

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/conversions/"+created.ID+"/pdf", nil))
	got := decodeError(t, rec)

	want := "The requested output format is not supported (Code: FILE002). Choose csv or xlsx"
	if got.Error != want {
		t.Errorf("error = %q, want %q", got.Error, want)
	}
	if got.Message != "The requested output format is not supported" || got.Action != "Choose csv or xlsx" {
		t.Errorf("message/action = %q / %q", got.Message, got.Action)
	}
}

func TestRespondErrorPlainText(t *testing.T) {
	s := newTestServer(t, testConfig())
	rec := httptest.NewRecorder()

	s.respondError(rec, httptest.NewRequest(http.MethodGet, "/", nil), core.ErrConversionNotFound, http.StatusNotFound)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	want := "The conversion result has expired (Code: CNV001). Convert the data again, then save\n"
	if rec.Body.String() != want {
		t.Errorf("body = %q, want %q", rec.Body.String(), want)
	}
}

func TestServeWaitsForInFlightRequests(t *testing.T) {
	cfg := testConfig()
	cfg.Server.ShutdownTimeout = 5 * time.Second
	s := newTestServer(t, cfg)

	entered := make(chan struct{})
	release := make(chan struct{})
	s.Router().Get("/slow", func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.Write([]byte("done"))
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	drained := make(chan struct{})
	served := make(chan error, 1)
	go func() {
		served <- s.Serve(ctx, ln, func(context.Context) { close(drained) })
	}()

	type result struct {
		body string
		err  error
	}
	responses := make(chan result, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/slow")
		if err != nil {
			responses <- result{err: err}
			return
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		responses <- result{body: string(body), err: err}
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached the handler")
	}
	cancel()

	select {
	case <-drained:
	case <-time.After(5 * time.Second):
		t.Fatal("beforeShutdown was not called")
	}

	select {
	case err := <-served:
		t.Fatalf("Serve() returned with a request in flight: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	close(release)

	if got := <-responses; got.err != nil || got.body != "done" {
		t.Errorf("in-flight response = (%q, %v), want (\"done\", nil)", got.body, got.err)
	}

	select {
	case err := <-served:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after the request finished")
	}
}

func TestAPIKeyRequired(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RequireAPIKey = true
	cfg.Security.APIKeys = []string{"k1"}
	s := newTestServer(t, cfg)

	if rec := postJSON(t, s, waferInput); rec.Code != http.StatusUnauthorized {
		t.Errorf("no key: status = %d, want 401", rec.Code)
	}

	body, _ := json.Marshal(ConvertRequest{Text: waferInput})
	req := httptest.NewRequest(http.MethodPost, "/api/convert", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", "k1")
	if rec := serve(s, req); rec.Code != http.StatusOK {
		t.Errorf("valid key: status = %d, want 200", rec.Code)
	}

	if rec := serve(s, httptest.NewRequest(http.MethodGet, "/", nil)); rec.Code != http.StatusOK {
		t.Errorf("index should not need a key: status = %d", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Rate = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2}
	s := newTestServer(t, cfg)

	for i := 0; i < 2; i++ {
		if rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil)); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}

	other := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	other.RemoteAddr = "198.51.100.7:4000"
	if rec := serve(s, other); rec.Code != http.StatusOK {
		t.Errorf("other client: status = %d, want 200", rec.Code)
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrInputTooLarge, http.StatusRequestEntityTooLarge},
		{&http.MaxBytesError{Limit: 1}, http.StatusRequestEntityTooLarge},
		{&core.ValidationError{Reason: "input is empty", Err: core.ErrEmptyInput}, http.StatusBadRequest},
		{core.ErrInvalidRequest, http.StatusBadRequest},
		{core.ErrInvalidColumn, http.StatusBadRequest},
		{fmt.Errorf("%w %q", core.ErrUnsupportedFormat, "pdf"), http.StatusBadRequest},
		{core.ErrConversionNotFound, http.StatusNotFound},
		{core.ErrTooManyConversions, http.StatusServiceUnavailable},
		{context.Canceled, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusForError(tt.err); got != tt.want {
			t.Errorf("statusForError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
