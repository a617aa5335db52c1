package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/doorquote/internal/catalog"
	"github.com/Simplici0/doorquote/internal/db"
	"github.com/Simplici0/doorquote/internal/logger"
	"github.com/Simplici0/doorquote/internal/metrics"
	"github.com/Simplici0/doorquote/internal/migrations"
	"github.com/Simplici0/doorquote/internal/quotes"
	"github.com/Simplici0/doorquote/internal/quoting"
	"github.com/Simplici0/doorquote/internal/seed"
)

type testApp struct {
	db      *sql.DB
	srv     *server
	handler http.Handler
	store   *quotes.Store
}

func newTestApp(t *testing.T) testApp {
	t.Helper()
	ctx := context.Background()

	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, migrations.Up(ctx, database, "../../migrations"))
	_, err = seed.Run(ctx, database)
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	store := quotes.NewStore(database)
	srv := &server{
		svc: quoting.New(quoting.Options{
			Catalog: catalog.NewSource(database),
			Store:   store,
			Logger:  logger.Nop(),
			Metrics: metrics.NewPricingMetrics(registry),
		}),
		log: logger.Nop(),
		db:  database,
	}
	return testApp{db: database, srv: srv, handler: newRouter(srv, registry), store: store}
}

func (a testApp) id(t *testing.T, query string, args ...any) int64 {
	t.Helper()
	var id int64
	require.NoError(t, a.db.QueryRow(query, args...).Scan(&id))
	return id
}

func (a testApp) attributeID(t *testing.T, name string) int64 {
	return a.id(t, `SELECT id FROM attributes WHERE name = ?`, name)
}

func (a testApp) thicknessID(t *testing.T, doorType, value string) int64 {
	return a.id(t, `
		SELECT t.id FROM thickness_options t
		JOIN door_types d ON d.id = t.door_type_id
		WHERE d.name = ? AND t.thickness_value = ?
	`, doorType, value)
}

func (a testApp) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	return rr
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), "body=%s", rr.Body.String())
	if data != nil && env.Data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}
