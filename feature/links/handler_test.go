package links

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"relation-manager/core/database"
	"relation-manager/core/relation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var userBooks = relation.Definition{
	Name:         "user_books",
	Table:        "user_books",
	FirstColumn:  "user_id",
	SecondColumn: "book_id",
}

func setupTestApp(t *testing.T) (*fiber.App, *relation.Synchronizer) {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.CreateLinkTable(db, database.LinkTable{
		Table:        userBooks.Table,
		FirstColumn:  userBooks.FirstColumn,
		SecondColumn: userBooks.SecondColumn,
	}))

	syncer, err := relation.NewGorm(db, userBooks, relation.NewResolver(nil), zap.NewNop())
	require.NoError(t, err)
	registry := relation.NewRegistry()
	require.NoError(t, registry.Register(syncer))

	app := fiber.New()
	feature := NewFeature(registry, zap.NewNop())
	require.NoError(t, feature.Load(app))
	return app, syncer
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func getRecords(t *testing.T, app *fiber.App, path string) []relation.AssociationRecord {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var rows []struct {
		ID     int64 `json:"id"`
		First  int64 `json:"first"`
		Second int64 `json:"second"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))

	out := make([]relation.AssociationRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, relation.AssociationRecord{ID: r.ID, First: relation.IntKey(r.First), Second: relation.IntKey(r.Second)})
	}
	return out
}

func TestHandleSet(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := do(t, app, "PUT", "/relations/user_books/links/1", `{"targets":[2,4,"6"]}`)
	require.Equal(t, 200, status)
	assert.Equal(t, "user_books", body["relation"])
	assert.Equal(t, float64(3), body["summary"].(map[string]any)["created"])

	status, body = do(t, app, "PUT", "/relations/user_books/links/1", `{"targets":[4,6,8]}`)
	require.Equal(t, 200, status)
	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["deleted"])
	assert.Equal(t, float64(1), summary["created"])

	records := getRecords(t, app, "/relations/user_books/links/1")
	require.Len(t, records, 3)
	assert.Equal(t, relation.IntKey(4), records[0].Second)
}

func TestHandleSet_EmptyTargets(t *testing.T) {
	app, _ := setupTestApp(t)

	do(t, app, "PUT", "/relations/user_books/links/1", `{"targets":[2,3]}`)

	status, body := do(t, app, "PUT", "/relations/user_books/links/1", `{"targets":[]}`)
	require.Equal(t, 200, status)
	assert.Equal(t, float64(1), body["summary"].(map[string]any)["noop"])
	assert.Len(t, getRecords(t, app, "/relations/user_books/links/1"), 2)

	status, _ = do(t, app, "PUT", "/relations/user_books/links/1", `{"targets":[],"clear_on_empty":true}`)
	require.Equal(t, 200, status)
	assert.Empty(t, getRecords(t, app, "/relations/user_books/links/1"))
}

func TestHandleSet_BackLink(t *testing.T) {
	app, _ := setupTestApp(t)

	status, _ := do(t, app, "PUT", "/relations/user_books/links/5", `{"targets":[10,11],"back_link":true}`)
	require.Equal(t, 200, status)

	records := getRecords(t, app, "/relations/user_books/backlinks/5")
	require.Len(t, records, 2)
	assert.Equal(t, relation.IntKey(10), records[0].First)
	assert.Empty(t, getRecords(t, app, "/relations/user_books/links/5"))
}

func TestHandleLinkUnlink(t *testing.T) {
	app, syncer := setupTestApp(t)

	status, body := do(t, app, "POST", "/relations/user_books/links/1/2", "")
	require.Equal(t, 200, status)
	assert.Equal(t, float64(1), body["summary"].(map[string]any)["created"])

	status, body = do(t, app, "POST", "/relations/user_books/links/1/2", "")
	require.Equal(t, 200, status)
	assert.Equal(t, float64(1), body["summary"].(map[string]any)["already_exists"])

	status, _ = do(t, app, "POST", "/relations/user_books/links/3/1?back_link=true", "")
	require.Equal(t, 200, status)

	all, err := syncer.All(t.Context())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	status, body = do(t, app, "DELETE", "/relations/user_books/links/1/2", "")
	require.Equal(t, 200, status)
	assert.Equal(t, float64(1), body["summary"].(map[string]any)["deleted"])

	status, _ = do(t, app, "DELETE", "/relations/user_books/links/1", "")
	require.Equal(t, 200, status)
	assert.Empty(t, getRecords(t, app, "/relations/user_books/links/1"))
}

func TestHandleSet_Strict(t *testing.T) {
	app, _ := setupTestApp(t)

	// A zero key fails validation of the link row
	status, body := do(t, app, "PUT", "/relations/user_books/links/1", `{"targets":[0,2]}`)
	require.Equal(t, 200, status)
	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["failed"])
	assert.Equal(t, float64(1), summary["created"])

	status, body = do(t, app, "PUT", "/relations/user_books/links/1?strict=true", `{"targets":[0,2]}`)
	require.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, body["error"], "book_id")
	assert.NotNil(t, body["result"])
}

func TestHandleErrors(t *testing.T) {
	app, _ := setupTestApp(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"Unknown Relation", "GET", "/relations/nope/links/1", "", fiber.StatusNotFound},
		{"Non Integer Key", "GET", "/relations/user_books/links/abc", "", fiber.StatusBadRequest},
		{"Non Integer Target", "PUT", "/relations/user_books/links/1", `{"targets":["x"]}`, fiber.StatusBadRequest},
		{"Bad Body", "PUT", "/relations/user_books/links/1", `{"targets":`, fiber.StatusBadRequest},
		{"Unknown Reset", "DELETE", "/relations/nope/config", "", fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, status)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandleConfig(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := do(t, app, "GET", "/relations/user_books/config", "")
	require.Equal(t, 200, status)
	assert.Equal(t, false, body["clear_on_empty_mode"])

	status, body = do(t, app, "DELETE", "/relations/user_books/config", "")
	require.Equal(t, 200, status)
	assert.Equal(t, false, body["after_primary_mode"])

	resp, err := app.Test(httptest.NewRequest("GET", "/relations", nil))
	require.NoError(t, err)
	var infos []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&infos))
	require.Len(t, infos, 1)
	assert.Equal(t, "user_books", infos[0]["name"])
	assert.Equal(t, "user_id", infos[0]["first_column"])
}

func TestLoader(t *testing.T) {
	feature := NewFeature(nil, zap.NewNop())

	assert.Equal(t, "links", feature.Name())
	assert.True(t, feature.IsEnabled())

	app := fiber.New()
	assert.NoError(t, feature.Load(app))

	status, _ := do(t, app, "GET", "/relations/user_books/links/1", "")
	assert.Equal(t, fiber.StatusNotFound, status)
}
