package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huangsam/heatwatch/core"
	"github.com/huangsam/heatwatch/core/forecast"
	"github.com/huangsam/heatwatch/internal/iocache"
	"github.com/huangsam/heatwatch/schema"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *core.Service) {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := core.NewService(context.Background(), core.Options{
		Store:     iocache.NewMemoryStore(),
		Snapshots: iocache.NewSnapshotDir(filepath.Join(dir, "csv_data"), 7, logger),
		Exports:   iocache.NewExportCache(filepath.Join(dir, "temp"), 20, logger),
		Policy:    core.DefaultSnapshotPolicy(time.UTC),
		LSTM:      forecast.NewLSTM(),
		ARIMA:     forecast.NewARIMA(),
		Clock:     func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) },
		Logger:    logger,
	})
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	return NewRouter(svc, Options{Logger: logger}), svc
}

func do(r http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIndex(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "welcome")
}

func TestSend(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/send?temperature=25&humidity=40", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "data received", body["info"])
	assert.Equal(t, 1.0, body["id"])
	assert.InDelta(t, 25.6834783556, body["heat_index"], 1e-9)

	for _, target := range []string{
		"/send?temperature=abc&humidity=40",
		"/send?temperature=25",
		"/send",
	} {
		w = do(r, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Contains(t, w.Body.String(), "floats only", target)
	}
}

func TestSendOverflowKeepsStatsEncodable(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/send?temperature=1e100&humidity=1e100", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "heat index overflows")
	require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/send?temperature=1e100&humidity=0", nil).Code)
	require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/send?temperature=25&humidity=40", nil).Code)

	for _, target := range []string{"/stats", "/describe", "/get-data"} {
		w = do(r, http.MethodGet, target, nil)
		require.Equal(t, http.StatusOK, w.Code, target)
		require.NotEmpty(t, w.Body.Bytes(), target)
		var body map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), target)
	}
}

func TestSensorData(t *testing.T) {
	r, _ := newTestRouter(t)
	for _, temp := range []string{"20", "21", "22"} {
		require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/send?temperature="+temp+"&humidity=40", nil).Code)
	}

	w := do(r, http.MethodGet, "/sensor-data/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var set schema.StreamSet
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &set))
	for _, st := range schema.AllStreams {
		require.Len(t, set[st], 2, string(st))
		assert.Equal(t, int64(3), set[st][1].ID)
	}

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/sensor-data/abc", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/sensor-data/0", nil).Code)

	w = do(r, http.MethodGet, "/sensor-data/csv/5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "1717243200.csv")
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, strings.Join(schema.CSVHeader, ","), lines[0])
}

func TestStatsAndBaseline(t *testing.T) {
	r, _ := newTestRouter(t)
	require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/send?temperature=20&humidity=40", nil).Code)

	w := do(r, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cmp schema.StatComparison
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cmp))
	count := cmp[schema.TemperatureMetric][schema.CountStat]
	assert.Equal(t, 1.0, count.Data)
	assert.Nil(t, count.Percent)
	assert.NotEmpty(t, count.Error)

	w = do(r, http.MethodPost, "/stats/baseline", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var desc schema.Description
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &desc))
	assert.Equal(t, 1.0, desc[schema.TemperatureMetric].Count)

	w = do(r, http.MethodGet, "/get-data", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var payload schema.DataPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, 20.0, payload.Actual[schema.RawStream].Temperature)
	assert.Contains(t, payload.PredStat, schema.LSTMStream)
}

func TestDescribe(t *testing.T) {
	r, _ := newTestRouter(t)
	require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/send?temperature=20&humidity=40", nil).Code)

	w := do(r, http.MethodGet, "/describe", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"25%"`)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/describe?stream=arima", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/describe?stream=gru", nil).Code)
}

func TestDownload(t *testing.T) {
	r, svc := newTestRouter(t)
	require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/send?temperature=20&humidity=40", nil).Code)
	_, err := svc.TakeSnapshot(context.Background())
	require.NoError(t, err)

	form := url.Values{"myfile": {"01 Jun 2024.csv"}}
	w := do(r, http.MethodPost, "/download", strings.NewReader(form.Encode()))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Body.String(), "heat_index")

	w = do(r, http.MethodGet, "/download?myfile="+url.QueryEscape("01 Jun 2024.csv"), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/download?myfile=missing.csv", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(r, http.MethodGet, "/download?myfile="+url.QueryEscape("../../etc/passwd"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(r, http.MethodGet, "/download", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/snapshots", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var files []schema.FileInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &files))
	require.Len(t, files, 1)
	assert.Equal(t, "01 Jun 2024.csv", files[0].Name)
}

func TestRateLimiterFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer func() { _ = client.Close() }()

	r := gin.New()
	r.Use(NewRateLimiter(RateLimiterConfig{RedisClient: client, Limit: 1, Window: time.Second}))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for range 3 {
		w := do(r, http.MethodGet, "/ping", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}
