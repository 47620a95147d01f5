package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mujeebabdul-99/sports-card-text-extraction/internal/domain"
	"github.com/mujeebabdul-99/sports-card-text-extraction/internal/infrastructure/metrics"
)

// fakeSheetsAPI is a minimal stand-in for the Sheets v4 REST surface
type fakeSheetsAPI struct {
	mu      sync.Mutex
	titles  []string
	values  [][]string
	status  int
	updates []capturedUpdate
	added   []string
}

type capturedUpdate struct {
	Range        string
	InputOption  string
	Values       [][]interface{}
	BodyRange    string
	BodyMajorDim string
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if f.status != 0 {
		w.WriteHeader(f.status)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"code": f.status, "message": "Requested entity was not found."},
		})
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/v4/spreadsheets/")
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":batchUpdate"):
		var req struct {
			Requests []struct {
				AddSheet struct {
					Properties struct {
						Title string `json:"title"`
					} `json:"properties"`
				} `json:"addSheet"`
			} `json:"requests"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		for _, rq := range req.Requests {
			f.added = append(f.added, rq.AddSheet.Properties.Title)
			f.titles = append(f.titles, rq.AddSheet.Properties.Title)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"spreadsheetId": "sheet-123"})

	case r.Method == http.MethodGet && strings.Contains(path, "/values/"):
		rows := make([][]interface{}, len(f.values))
		for i, row := range f.values {
			for _, cell := range row {
				rows[i] = append(rows[i], cell)
			}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"values": rows})

	case r.Method == http.MethodPut && strings.Contains(path, "/values/"):
		var body struct {
			Range          string          `json:"range"`
			MajorDimension string          `json:"majorDimension"`
			Values         [][]interface{} `json:"values"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		f.updates = append(f.updates, capturedUpdate{
			Range:        path[strings.Index(path, "/values/")+len("/values/"):],
			InputOption:  r.URL.Query().Get("valueInputOption"),
			Values:       body.Values,
			BodyRange:    body.Range,
			BodyMajorDim: body.MajorDimension,
		})
		json.NewEncoder(w).Encode(map[string]interface{}{"updatedRange": body.Range})

	case r.Method == http.MethodGet:
		sheets := make([]map[string]interface{}, 0, len(f.titles))
		for _, title := range f.titles {
			sheets = append(sheets, map[string]interface{}{
				"properties": map[string]interface{}{"title": title},
			})
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"spreadsheetId": "sheet-123", "sheets": sheets})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestClient(t *testing.T, api *fakeSheetsAPI) *Client {
	t.Helper()

	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	client, err := NewClient(context.Background(), ClientConfig{
		Endpoint:          server.URL + "/",
		HTTPClient:        server.Client(),
		RequestsPerMinute: 6000,
	}, zap.NewNop(), metrics.New(prometheus.NewRegistry()))
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	client, err := NewClient(context.Background(), ClientConfig{}, nil, nil)

	assert.Nil(t, client)
	assert.ErrorIs(t, err, domain.ErrSheetsNotConfigured)
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient(context.Background(), ClientConfig{HTTPClient: http.DefaultClient}, nil, nil)

	require.NoError(t, err)
	assert.NotNil(t, client.service)
	assert.NotNil(t, client.rateLimiter)
	assert.Equal(t, 30*time.Second, client.timeout)
	assert.False(t, client.debug)
}

func TestSetDebug(t *testing.T) {
	client, err := NewClient(context.Background(), ClientConfig{HTTPClient: http.DefaultClient}, nil, nil)
	require.NoError(t, err)

	client.SetDebug(true)
	assert.True(t, client.debug)

	client.SetDebug(false)
	assert.False(t, client.debug)
}

func TestSheetTitles(t *testing.T) {
	api := &fakeSheetsAPI{titles: []string{"Sheet1", "Archive"}}
	client := newTestClient(t, api)

	titles, err := client.SheetTitles(context.Background(), "sheet-123")

	require.NoError(t, err)
	assert.Equal(t, []string{"Sheet1", "Archive"}, titles)
}

func TestSheetTitles_NotFound(t *testing.T) {
	api := &fakeSheetsAPI{status: http.StatusNotFound}
	client := newTestClient(t, api)

	titles, err := client.SheetTitles(context.Background(), "missing")

	assert.Nil(t, titles)
	assert.ErrorIs(t, err, domain.ErrSpreadsheetNotFound)
}

func TestSheetTitles_ServerError(t *testing.T) {
	api := &fakeSheetsAPI{status: http.StatusForbidden}
	client := newTestClient(t, api)

	_, err := client.SheetTitles(context.Background(), "sheet-123")

	assert.ErrorIs(t, err, domain.ErrSheetsAPIFailure)
	assert.NotErrorIs(t, err, domain.ErrSpreadsheetNotFound)
}

func TestAddSheet(t *testing.T) {
	api := &fakeSheetsAPI{titles: []string{"Sheet1"}}
	client := newTestClient(t, api)

	err := client.AddSheet(context.Background(), "sheet-123", "Graded")

	require.NoError(t, err)
	assert.Equal(t, []string{"Graded"}, api.added)
}

func TestReadValues(t *testing.T) {
	api := &fakeSheetsAPI{values: [][]string{
		domain.StandardHeader,
		{"2020", "Topps", "42"},
	}}
	client := newTestClient(t, api)

	rows, err := client.ReadValues(context.Background(), "sheet-123", SheetRange("Sheet1"))

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.StandardHeader, rows[0])
	assert.Equal(t, []string{"2020", "Topps", "42"}, rows[1])
}

func TestReadValues_EmptySheet(t *testing.T) {
	client := newTestClient(t, &fakeSheetsAPI{})

	rows, err := client.ReadValues(context.Background(), "sheet-123", SheetRange("Sheet1"))

	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUpdateValues(t *testing.T) {
	api := &fakeSheetsAPI{}
	client := newTestClient(t, api)

	row := []string{"2020", "Topps", "42", "Title", "", "", "", "", "", "", "=SUM(A1)"}
	err := client.UpdateValues(context.Background(), "sheet-123", RowRange("Sheet1", 2, 11), [][]string{row})

	require.NoError(t, err)
	require.Len(t, api.updates, 1)
	update := api.updates[0]
	assert.Equal(t, "'Sheet1'!A2:K2", update.Range)
	assert.Equal(t, "'Sheet1'!A2:K2", update.BodyRange)
	assert.Equal(t, "RAW", update.InputOption)
	assert.Equal(t, "ROWS", update.BodyMajorDim)
	require.Len(t, update.Values, 1)
	assert.Len(t, update.Values[0], 11)
	assert.Equal(t, "=SUM(A1)", update.Values[0][10])
}
