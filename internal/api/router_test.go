package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jengzang/geowell-backend-go/internal/config"
	"github.com/jengzang/geowell-backend-go/internal/database"
	"github.com/jengzang/geowell-backend-go/internal/handler"
	"github.com/jengzang/geowell-backend-go/internal/ingest"
	"github.com/jengzang/geowell-backend-go/internal/repository"
	"github.com/jengzang/geowell-backend-go/internal/service"
	"github.com/jengzang/geowell-backend-go/internal/spatial"
)

var fixtureFiles = map[string]string{
	"INKL/траектории": "welltrack 'W1'\n0 0 0 0\n10 0 -10 20\n",
	"dot_dtv/H":       "X Y Z Well H\n0 0 0 W1 10\n3 3 0 W2 5\n",
	"dot_dtv/EFF_H":   "X Y Z Well EFF_H\n0 0 0 W1 4\n",
	"W1.las": `~Version information
 VERS.   2.0 : version
~Well information
 WELL.   W1 : well
~Curve information
 DEPT.M       : depth
 КриваяГИС1.  : collector flag
~A
0.0 1
1.0 1
2.0 0
3.0 0
4.0 1
`,
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	for rel, content := range fixtureFiles {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	cfg := config.DefaultConfig()
	cfg.Sources.DataDir = dir
	cfg.Server.LoadsPerMinute = 2
	opts, err := ingest.OptionsFromConfig(cfg)
	require.NoError(t, err)

	logger := zaptest.NewLogger(t)
	db, err := database.Open(context.Background(), database.Config{
		Path:        filepath.Join(t.TempDir(), "geowell.db"),
		BusyTimeout: 5 * time.Second,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	wellRepo := repository.NewWellRepository(db)
	trajRepo := repository.NewTrajectoryRepository(db)
	lasRepo := repository.NewLASRepository(db)

	loads := service.NewLoadService(ingest.NewLoader(opts, logger), wellRepo, trajRepo, lasRepo, service.PersistOptions{Concurrency: 2}, logger)
	wells := service.NewWellService(wellRepo, trajRepo, lasRepo, service.WellOptions{Mapping: spatial.DefaultOptions()})

	return SetupRouter(cfg, Handlers{
		Loads: handler.NewLoadHandler(loads),
		Wells: handler.NewWellHandler(wells),
	}, logger)
}

func do(t *testing.T, r *gin.Engine, method, path string) (int, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))

	var body envelope
	if w.Code != http.StatusNoContent {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	}
	return w.Code, body
}

func TestHealth(t *testing.T) {
	r := setupRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestLoadEndpoints(t *testing.T) {
	r := setupRouter(t)

	code, _ := do(t, r, http.MethodGet, "/api/v1/loads/last")
	assert.Equal(t, http.StatusNotFound, code)

	code, body := do(t, r, http.MethodPost, "/api/v1/loads")
	require.Equal(t, http.StatusOK, code, body.Message)

	var summary struct {
		LoadID     string `json:"load_id"`
		WellsSaved int    `json:"wells_saved"`
		Succeeded  bool   `json:"succeeded"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &summary))
	assert.NotEmpty(t, summary.LoadID)
	assert.Equal(t, 2, summary.WellsSaved)
	assert.True(t, summary.Succeeded)

	code, body = do(t, r, http.MethodGet, "/api/v1/loads/last")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body.Data), summary.LoadID)

	code, _ = do(t, r, http.MethodPost, "/api/v1/loads")
	assert.Equal(t, http.StatusOK, code)
	code, _ = do(t, r, http.MethodPost, "/api/v1/loads")
	assert.Equal(t, http.StatusTooManyRequests, code)
}

func TestWellEndpoints(t *testing.T) {
	r := setupRouter(t)
	code, _ := do(t, r, http.MethodPost, "/api/v1/loads")
	require.Equal(t, http.StatusOK, code)

	t.Run("list", func(t *testing.T) {
		code, body := do(t, r, http.MethodGet, "/api/v1/wells?hasRatio=true")
		require.Equal(t, http.StatusOK, code)

		var resp struct {
			Data []struct {
				Name string `json:"name"`
			} `json:"data"`
			Total int `json:"total"`
		}
		require.NoError(t, json.Unmarshal(body.Data, &resp))
		assert.Equal(t, 1, resp.Total)
		assert.Equal(t, "W1", resp.Data[0].Name)
	})

	t.Run("stats", func(t *testing.T) {
		code, body := do(t, r, http.MethodGet, "/api/v1/wells/stats")
		require.Equal(t, http.StatusOK, code)
		assert.Contains(t, string(body.Data), `"with_ratio":1`)
	})

	t.Run("get", func(t *testing.T) {
		code, _ := do(t, r, http.MethodGet, "/api/v1/wells/W2")
		assert.Equal(t, http.StatusOK, code)

		code, _ = do(t, r, http.MethodGet, "/api/v1/wells/NOPE")
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("trajectory", func(t *testing.T) {
		code, body := do(t, r, http.MethodGet, "/api/v1/wells/W1/trajectory?step=5")
		require.Equal(t, http.StatusOK, code)
		assert.Contains(t, string(body.Data), `"resampled":true`)

		code, _ = do(t, r, http.MethodGet, "/api/v1/wells/W1/trajectory?step=abc")
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("map", func(t *testing.T) {
		code, body := do(t, r, http.MethodGet, "/api/v1/wells/W1/map?md=10")
		require.Equal(t, http.StatusOK, code)

		var resp struct {
			Points []struct {
				Point struct {
					X, Y, Z float64
				} `json:"point"`
				OutOfRange bool `json:"out_of_range"`
			} `json:"points"`
		}
		require.NoError(t, json.Unmarshal(body.Data, &resp))
		require.Len(t, resp.Points, 1)
		assert.Equal(t, 5.0, resp.Points[0].Point.X)
		assert.Equal(t, -5.0, resp.Points[0].Point.Z)
		assert.False(t, resp.Points[0].OutOfRange)

		code, _ = do(t, r, http.MethodGet, "/api/v1/wells/W1/map")
		assert.Equal(t, http.StatusBadRequest, code)

		code, _ = do(t, r, http.MethodGet, "/api/v1/wells/W2/map?md=1")
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("segments", func(t *testing.T) {
		code, body := do(t, r, http.MethodGet, "/api/v1/wells/W1/segments?boundary=sample")
		require.Equal(t, http.StatusOK, code)

		var resp struct {
			Segments []struct {
				Classification string  `json:"classification"`
				MDStart        float64 `json:"md_start"`
				MDEnd          float64 `json:"md_end"`
			} `json:"segments"`
		}
		require.NoError(t, json.Unmarshal(body.Data, &resp))
		require.Len(t, resp.Segments, 3)
		assert.Equal(t, "non_collector", resp.Segments[1].Classification)
		assert.Equal(t, 2.0, resp.Segments[1].MDStart)

		code, _ = do(t, r, http.MethodGet, "/api/v1/wells/W1/segments?minDepth=2&maxDepth=3")
		assert.Equal(t, http.StatusOK, code)

		code, _ = do(t, r, http.MethodGet, "/api/v1/wells/W1/segments?boundary=zigzag")
		assert.Equal(t, http.StatusBadRequest, code)
	})
}
