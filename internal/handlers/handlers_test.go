package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/staff-management-api/internal/constants"
	apierrors "github.com/yukikurage/staff-management-api/internal/errors"
	"github.com/yukikurage/staff-management-api/internal/models"
	"github.com/yukikurage/staff-management-api/internal/outbox"
	"github.com/yukikurage/staff-management-api/internal/repository"
	"github.com/yukikurage/staff-management-api/internal/services"
	"github.com/yukikurage/staff-management-api/internal/storage"
	"github.com/yukikurage/staff-management-api/internal/testutil"
	"gorm.io/gorm"
)

const testPassword = "password123"

// Smallest valid GIF.
var tinyGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00, 0x00, 0xff, 0xff, 0xff,
	0x00, 0x00, 0x00, 0x21, 0xf9, 0x04, 0x01, 0x00, 0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00,
	0x01, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testEnv struct {
	db       *gorm.DB
	users    repository.UserRepository
	mail     *testutil.Mailbox
	events   *testutil.Events
	store    storage.Store
	uploader *storage.Uploader
	notifier *services.Notifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	mail := &testutil.Mailbox{}
	events := &testutil.Events{}

	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	return &testEnv{
		db:       db,
		users:    repository.NewUserRepository(db),
		mail:     mail,
		events:   events,
		store:    store,
		uploader: storage.NewUploader(store, 1024*1024, constants.UploadsRoute),
		notifier: services.NewNotifier(outbox.NewInline(), mail, events, "https://staff.example.com"),
	}
}

func (e *testEnv) createUser(t *testing.T, username string, admin bool) *models.User {
	t.Helper()
	hash, err := services.HashPassword(testPassword)
	require.NoError(t, err)
	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        username + "@example.com",
		Name:         username,
		IsAdmin:      admin,
		IsApproved:   true,
	}
	require.NoError(t, e.users.Create(user))
	return user
}

// newContext builds a request context as RequireAuth would leave it for user.
// body is JSON encoded unless it is nil.
func newContext(t *testing.T, method, url string, body any, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, url, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	return contextFor(req, user)
}

func contextFor(req *http.Request, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	if user != nil {
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
	}
	return c, w
}

// multipartRequest encodes fields and an optional file part.
func multipartRequest(t *testing.T, method, url string, fields map[string]string, fileField, fileName string, file []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		part, err := mw.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func setParam(c *gin.Context, key, value string) {
	c.Params = append(c.Params, gin.Param{Key: key, Value: value})
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[apierrors.APIError](t, w).Code
}
