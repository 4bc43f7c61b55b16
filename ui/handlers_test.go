package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchhold/adapters/excel"
	"merchhold/adapters/localfile"
	"merchhold/adapters/memory"
	"merchhold/app"
	"merchhold/domain/schema"
	"merchhold/ports"
)

func newTestServer(t *testing.T, holdFile string) *httptest.Server {
	t.Helper()
	aliases := schema.NewAliasTable()
	resolver := schema.NewResolver(aliases)
	tables := memory.NewTableStore()
	profiles := memory.NewProfileStore()

	handles := localfile.NewStore()
	if holdFile != "" {
		require.NoError(t, handles.Set(context.Background(), ports.ResourceHold,
			localfile.NewHandle("HOLD", holdFile)))
	}

	server := NewServer(Deps{
		Records:  app.NewRecordService(tables, profiles, resolver, 0),
		Updater:  app.NewUpdaterService(handles, resolver),
		Profiles: app.NewProfileService(profiles),
		Reports:  app.NewReportService(tables, resolver),
		Ingester: excel.NewIngester(aliases),
		Tables:   tables,
	})
	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)
	return ts
}

func holdWorkbook(t *testing.T) []byte {
	t.Helper()
	wb, err := excel.NewWorkbook("Hold Sheet")
	require.NoError(t, err)
	defer wb.Close()
	require.NoError(t, wb.WriteRows("Hold Sheet", [][]string{
		{"MID", "Merchant Name", "Status"},
		{"M100", "Acme Traders", "On Hold"},
		{"M200", "Bistro Uno", "On Hold"},
	}))
	data, err := wb.Bytes()
	require.NoError(t, err)
	return data
}

func uploadTable(t *testing.T, ts *httptest.Server, filename string, data []byte) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.URL+"/api/tables", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestUploadSearchReconcile(t *testing.T) {
	ts := newTestServer(t, "")
	uploadTable(t, ts, "Hold_Jan.xlsx", holdWorkbook(t))

	resp, err := http.Get(ts.URL + "/api/search?q=M100")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var hits []struct {
		SourceTable string            `json:"sourceTable"`
		Record      map[string]string `json:"record"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&hits))
	require.Len(t, hits, 1)
	assert.Equal(t, "Hold_Jan.xlsx", hits[0].SourceTable)
	assert.Equal(t, "Acme Traders", hits[0].Record["Merchant Name"])

	recBody := strings.NewReader(`{"table":"Hold_Jan.xlsx","rowKey":"M100"}`)
	recResp, err := http.Post(ts.URL+"/api/reconcile", "application/json", recBody)
	require.NoError(t, err)
	defer recResp.Body.Close()
	require.Equal(t, http.StatusOK, recResp.StatusCode)

	var fields map[schema.Field]string
	require.NoError(t, json.NewDecoder(recResp.Body).Decode(&fields))
	assert.Equal(t, "Acme Traders", fields[schema.FieldName])
	assert.Equal(t, "On Hold", fields[schema.FieldStatus])
}

func TestUpdateEndpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hold.xlsx")
	require.NoError(t, os.WriteFile(path, holdWorkbook(t), 0o644))
	ts := newTestServer(t, path)

	body := strings.NewReader(`{"resourceKind":"HOLD","rowKey":"M100","patch":{"status":"Closed"}}`)
	resp, err := http.Post(ts.URL+"/api/updates", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	wb, err := excel.OpenWorkbook(data)
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.Rows("Hold Sheet")
	require.NoError(t, err)
	assert.Equal(t, []string{"M100", "Acme Traders", "Closed"}, rows[1])
}

func TestUpdateEndpointRowNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hold.xlsx")
	require.NoError(t, os.WriteFile(path, holdWorkbook(t), 0o644))
	ts := newTestServer(t, path)

	body := strings.NewReader(`{"resourceKind":"HOLD","rowKey":"M999","patch":{"status":"Closed"}}`)
	resp, err := http.Post(ts.URL+"/api/updates", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestConfigExportImport(t *testing.T) {
	ts := newTestServer(t, "")

	doc := `{"version":1,"profiles":[{"id":"p1","name":"ops"}],"activeProfileId":"p1"}`
	resp, err := http.Post(ts.URL+"/api/config/import", "application/json", strings.NewReader(doc))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	expResp, err := http.Get(ts.URL + "/api/config/export?activeProfileId=p1")
	require.NoError(t, err)
	defer expResp.Body.Close()
	require.Equal(t, http.StatusOK, expResp.StatusCode)

	var exported struct {
		Version  int `json:"version"`
		Profiles []struct {
			ID string `json:"id"`
		} `json:"profiles"`
	}
	require.NoError(t, json.NewDecoder(expResp.Body).Decode(&exported))
	require.Len(t, exported.Profiles, 1)
	assert.Equal(t, "p1", exported.Profiles[0].ID)
}

func searchHits(t *testing.T, ts *httptest.Server, rawQuery string) int {
	t.Helper()
	resp, err := http.Get(ts.URL + "/api/search?" + rawQuery)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var hits []json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&hits))
	return len(hits)
}

func TestImportRefreshesColumnResolution(t *testing.T) {
	ts := newTestServer(t, "")

	// Identifier lives in the second column, so only the imported
	// mapping override makes the search find it.
	wb, err := excel.NewWorkbook("Sheet1")
	require.NoError(t, err)
	defer wb.Close()
	require.NoError(t, wb.WriteRows("Sheet1", [][]string{
		{"Shop", "Ref Code"},
		{"Corner Deli", "Z900"},
	}))
	data, err := wb.Bytes()
	require.NoError(t, err)
	uploadTable(t, ts, "Hold_Odd.xlsx", data)

	// Prime the cached index for the profile before the import.
	assert.Equal(t, 0, searchHits(t, ts, "q=Z900&profile=p1"))

	doc := `{"version":1,"activeProfileId":"p1","profiles":[{"id":"p1","name":"ops",` +
		`"mappings":{"Hold_Odd.xlsx":{"identifier":"Ref Code"}}}]}`
	resp, err := http.Post(ts.URL+"/api/config/import", "application/json", strings.NewReader(doc))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 1, searchHits(t, ts, "q=Z900&profile=p1"))
}

func TestImportRejectsBadDocument(t *testing.T) {
	ts := newTestServer(t, "")

	resp, err := http.Post(ts.URL+"/api/config/import", "application/json",
		strings.NewReader(`{"version":1}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
