package snapshot

import (
	"net/http/httptest"
	"testing"

	"relation-manager/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandlers(t *testing.T) {
	svc, client, syncer := setupService(t)
	link(t, syncer, 1, 2)

	app := fiber.New()
	NewHandler(svc).RegisterRoutes(app)

	var data []byte
	expectExport(client, &data)
	client.On("RemoveObject", mock.Anything, bucket, "snapshots/user_books/old.json", mock.Anything).Return(nil)
	client.On("ListObjects", mock.Anything, bucket, mock.Anything).
		Return(mocks.Objects(minio.ObjectInfo{Key: "snapshots/user_books/old.json"}))

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"Export", "POST", "/snapshots/user_books", fiber.StatusCreated},
		{"Export Unknown", "POST", "/snapshots/nope", fiber.StatusNotFound},
		{"List", "GET", "/snapshots/user_books", fiber.StatusOK},
		{"Load Invalid", "GET", "/snapshots/user_books/notes.txt", fiber.StatusBadRequest},
		{"Restore Invalid", "POST", "/snapshots/user_books/notes.txt/restore", fiber.StatusBadRequest},
		{"Delete", "DELETE", "/snapshots/user_books/old.json", fiber.StatusNoContent},
		{"Prune", "DELETE", "/snapshots/user_books?keep=5", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(tt.method, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
	assert.NotEmpty(t, data)
}

func TestLoader(t *testing.T) {
	disabled := NewFeature(nil, bucket, "", nil, zap.NewNop())
	assert.Equal(t, "snapshot", disabled.Name())
	assert.False(t, disabled.IsEnabled())

	_, client, _ := setupService(t)
	enabled := NewFeature(client, bucket, "", nil, zap.NewNop())
	assert.True(t, enabled.IsEnabled())

	app := fiber.New()
	require.NoError(t, enabled.Load(app))
	resp, err := app.Test(httptest.NewRequest("GET", "/snapshots/user_books", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
