package rest

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"photoshare/application/caching"
	"photoshare/application/commands/bus"
	cmdhandlers "photoshare/application/commands/handlers"
	querybus "photoshare/application/queries/bus"
	queryhandlers "photoshare/application/queries/handlers"
	"photoshare/application/services"
	"photoshare/infrastructure/cache"
	"photoshare/infrastructure/messaging"
	"photoshare/infrastructure/persistence/memory"
	"photoshare/interfaces/http/rest/middleware"
	"photoshare/pkg/auth"
	pkgerrors "photoshare/pkg/errors"
	"photoshare/tests/fixtures"
	"photoshare/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T, cfg RouterConfig) http.Handler {
	t.Helper()
	logger := zap.NewNop()

	store := memory.NewStore()
	scheme := caching.NewScheme(cache.NewMemoryCache(cache.DefaultMemoryConfig()), logger, nil)
	publisher := messaging.NewLogPublisher(logger)

	commandBus := bus.NewCommandBus()
	require.NoError(t, cmdhandlers.Register(commandBus,
		cmdhandlers.NewPhotoHandler(store.Photos(), mocks.NewMemoryBlobStore(), nil, scheme, publisher, nil, logger),
		cmdhandlers.NewLikeHandler(store.Likes(), store.Photos(), scheme, publisher, logger),
		cmdhandlers.NewCommentHandler(store.Comments(), store.Photos(), publisher, nil, logger),
	))

	queryBus := querybus.NewQueryBus()
	require.NoError(t, queryhandlers.Register(queryBus,
		queryhandlers.NewPhotoQueryHandler(store.Photos(), scheme, queryhandlers.DefaultCachePolicy(), logger),
		queryhandlers.NewSocialQueryHandler(store.Likes(), store.Comments()),
	))

	tokens, err := auth.NewJWTService(auth.JWTConfig{SecretKey: "router-secret", Issuer: "photoshare", TTL: time.Hour})
	require.NoError(t, err)
	accounts := services.NewAuthService(store.Users(), auth.NewBcryptHasher(bcrypt.MinCost), tokens, publisher, nil, logger)

	router := NewRouter(commandBus, queryBus, accounts, tokens,
		auth.NewSlidingWindowLimiter(cfg.AuthRateLimit.Limit, cfg.AuthRateLimit.Window),
		pkgerrors.NewErrorHandler(logger, false), nil, cfg, logger)
	return router.Setup()
}

type request struct {
	method  string
	path    string
	body    string
	headers map[string]string
}

func do(t *testing.T, h http.Handler, req request) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(req.method, req.path, strings.NewReader(req.body))
	if req.body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.headers {
		r.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func upload(t *testing.T, h http.Handler, headers map[string]string, title string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", "sunset.png")
	require.NoError(t, err)
	_, err = part.Write(fixtures.PNG(8, 8))
	require.NoError(t, err)
	require.NoError(t, form.WriteField("title", title))
	require.NoError(t, form.WriteField("caption", "golden hour"))
	require.NoError(t, form.WriteField("people", `["Ada", "Grace"]`))
	require.NoError(t, form.Close())

	r := httptest.NewRequest(http.MethodPost, "/photo", &body)
	r.Header.Set("Content-Type", form.FormDataContentType())
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	return decode[map[string]string](t, w)["error"]
}

var creatorHeaders = map[string]string{
	middleware.HeaderUserID:   "creator-1",
	middleware.HeaderUserName: "Ada",
	middleware.HeaderUserRole: "creator",
}

func TestHealthAndPing(t *testing.T) {
	h := newTestServer(t, DefaultRouterConfig())

	w := do(t, h, request{method: http.MethodGet, path: "/health"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())

	w = do(t, h, request{method: http.MethodGet, path: "/ready"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, request{method: http.MethodGet, path: "/ping?name=Ada"})
	assert.Equal(t, "Hello, Ada!", w.Body.String())

	w = do(t, h, request{method: http.MethodPost, path: "/ping", body: "Grace"})
	assert.Equal(t, "Hello, Grace!", w.Body.String())

	w = do(t, h, request{method: http.MethodGet, path: "/ping"})
	assert.Equal(t, "Hello, world!", w.Body.String())
}

func TestPhotoLifecycle(t *testing.T) {
	h := newTestServer(t, DefaultRouterConfig())

	w := upload(t, h, creatorHeaders, "Sunset")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	photo := decode[map[string]interface{}](t, w)
	id := photo["id"].(string)
	assert.Equal(t, "Sunset", photo["title"])
	assert.Equal(t, []interface{}{"Ada", "Grace"}, photo["people"])
	assert.EqualValues(t, 0, photo["likes"])

	w = do(t, h, request{method: http.MethodGet, path: "/photos"})
	require.Equal(t, http.StatusOK, w.Code)
	listed := decode[[]map[string]interface{}](t, w)
	require.Len(t, listed, 1)
	assert.Equal(t, id, listed[0]["id"])

	w = do(t, h, request{method: http.MethodGet, path: "/api/get-photo/" + id})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, request{method: http.MethodDelete, path: "/photo/" + id, headers: map[string]string{
		middleware.HeaderUserID: "creator-2", middleware.HeaderUserRole: "creator",
	}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, h, request{method: http.MethodDelete, path: "/delete-photo/" + id, headers: creatorHeaders})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, request{method: http.MethodGet, path: "/photo/" + id})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Photo not found", errorOf(t, w))

	w = do(t, h, request{method: http.MethodGet, path: "/get-photos?page=1&limit=20"})
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCreatePhoto_Rejections(t *testing.T) {
	h := newTestServer(t, DefaultRouterConfig())

	w := upload(t, h, nil, "Anonymous")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Not authenticated", errorOf(t, w))

	w = upload(t, h, map[string]string{middleware.HeaderUserID: "consumer-1", middleware.HeaderUserRole: "consumer"}, "Nope")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Only creators can upload photos", errorOf(t, w))

	w = upload(t, h, creatorHeaders, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Image and title are required", errorOf(t, w))

	w = do(t, h, request{method: http.MethodPost, path: "/photo", body: `{"title":"x"}`, headers: creatorHeaders})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "File is required", errorOf(t, w))
}

func TestLikesAndComments(t *testing.T) {
	h := newTestServer(t, DefaultRouterConfig())
	w := upload(t, h, creatorHeaders, "Liked")
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[map[string]interface{}](t, w)["id"].(string)

	like := `{"photoId":"` + id + `","userId":"fan-1"}`
	w = do(t, h, request{method: http.MethodPost, path: "/like", body: like})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"likes":1}`, w.Body.String())

	w = do(t, h, request{method: http.MethodPost, path: "/like-photo", body: like})
	assert.JSONEq(t, `{"likes":1}`, w.Body.String(), "liking twice is idempotent")

	w = do(t, h, request{method: http.MethodPost, path: "/like", body: `{"photoId":"` + id + `"}`, headers: map[string]string{
		middleware.HeaderUserID: "fan-2",
	}})
	assert.JSONEq(t, `{"likes":2}`, w.Body.String(), "the caller likes when no userId is sent")

	w = do(t, h, request{method: http.MethodGet, path: "/photo/" + id})
	assert.EqualValues(t, 2, decode[map[string]interface{}](t, w)["likes"])

	w = do(t, h, request{method: http.MethodGet, path: "/likes", headers: map[string]string{"x-photo-id": id, "x-user-id": "fan-1"}})
	assert.JSONEq(t, `{"count":2,"userHasLiked":true}`, w.Body.String())

	w = do(t, h, request{method: http.MethodPost, path: "/unlike", body: like})
	assert.JSONEq(t, `{"likes":1}`, w.Body.String())

	w = do(t, h, request{method: http.MethodGet, path: "/get-user-liked-photos", headers: map[string]string{"x-photo-id": id}})
	summary := decode[map[string]interface{}](t, w)
	assert.Equal(t, id, summary["id"])
	assert.EqualValues(t, 1, summary["likes"])

	w = do(t, h, request{method: http.MethodPost, path: "/comment", body: `{"photoId":"` + id + `","content":"  lovely  "}`, headers: map[string]string{
		middleware.HeaderUserID: "fan-1", middleware.HeaderUserName: "Lin", middleware.HeaderUserRole: "consumer",
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	comment := decode[map[string]interface{}](t, w)
	assert.Equal(t, "lovely", comment["content"])
	assert.Equal(t, "Lin", comment["userName"])

	w = do(t, h, request{method: http.MethodGet, path: "/comments?photoId=" + id})
	assert.Len(t, decode[[]map[string]interface{}](t, w), 1)

	w = do(t, h, request{method: http.MethodDelete, path: "/comment/" + comment["id"].(string), headers: map[string]string{
		middleware.HeaderUserID: "fan-2", middleware.HeaderUserRole: "consumer",
	}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, h, request{method: http.MethodDelete, path: "/delete-comment/" + comment["id"].(string), headers: map[string]string{
		middleware.HeaderUserID: "fan-1",
	}})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, request{method: http.MethodGet, path: "/get-comments", headers: map[string]string{"x-photo-id": id}})
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestRequestValidation(t *testing.T) {
	h := newTestServer(t, DefaultRouterConfig())

	tests := []struct {
		name    string
		req     request
		status  int
		message string
	}{
		{"like without photo", request{method: http.MethodPost, path: "/like", body: `{"userId":"u"}`}, http.StatusBadRequest, "Photo ID required"},
		{"like with empty body", request{method: http.MethodPost, path: "/like"}, http.StatusBadRequest, "Photo ID required"},
		{"malformed body", request{method: http.MethodPost, path: "/like", body: `{"photoId":`}, http.StatusBadRequest, "Invalid request body"},
		{"like unknown photo", request{method: http.MethodPost, path: "/like", body: `{"photoId":"ghost","userId":"u"}`}, http.StatusNotFound, "Photo not found"},
		{"likes without photo", request{method: http.MethodGet, path: "/get-likes"}, http.StatusBadRequest, "Photo ID required"},
		{"comments without photo", request{method: http.MethodGet, path: "/comments"}, http.StatusBadRequest, "Photo ID required"},
		{"comment without user", request{method: http.MethodPost, path: "/comment", body: `{"photoId":"p","content":"hi"}`}, http.StatusUnauthorized, "Not authenticated"},
		{"comment without content", request{method: http.MethodPost, path: "/comment", body: `{"photoId":"p","userId":"u"}`}, http.StatusBadRequest, "Comment content required"},
		{"page is not a number", request{method: http.MethodGet, path: "/photos?page=abc"}, http.StatusBadRequest, "page must be an integer"},
		{"page below one", request{method: http.MethodGet, path: "/photos?page=0"}, http.StatusBadRequest, ""},
		{"oversized id", request{method: http.MethodPost, path: "/like", body: `{"photoId":"` + strings.Repeat("a", 200) + `"}`}, http.StatusBadRequest, "photoId must be at most 128 characters"},
		{"delete without identity", request{method: http.MethodDelete, path: "/photo/p1"}, http.StatusUnauthorized, "Not authenticated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.req)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.message != "" {
				assert.Equal(t, tt.message, errorOf(t, w))
			}
		})
	}
}

func TestAccounts(t *testing.T) {
	h := newTestServer(t, DefaultRouterConfig())

	w := do(t, h, request{method: http.MethodPost, path: "/signup-creator", body: `{"name":"Ada","email":"ada@example.com","password":"secret1"}`})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "User (Creator) registered successfully", decode[map[string]interface{}](t, w)["message"])

	w = do(t, h, request{method: http.MethodPost, path: "/api/signup-consumer", body: `{"name":"Ada","email":"ADA@example.com","password":"secret1"}`})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User (Consumer) with this email already exists.", errorOf(t, w))

	w = do(t, h, request{method: http.MethodPost, path: "/signin", body: `{"email":"ada@example.com","password":"wrong12"}`})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid email or password.", errorOf(t, w))

	w = do(t, h, request{method: http.MethodPost, path: "/signin", body: `{"email":"ada@example.com","password":"secret1"}`})
	require.Equal(t, http.StatusOK, w.Code)
	session := decode[map[string]interface{}](t, w)
	token := session["token"].(string)
	require.NotEmpty(t, token)

	// The token alone identifies a creator who may upload
	w = upload(t, h, map[string]string{"Authorization": "Bearer " + token}, "With token")
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = upload(t, h, map[string]string{"Authorization": "Bearer not-a-token"}, "Forged")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token", errorOf(t, w))
}

func TestIdentityHeadersCanBeDistrusted(t *testing.T) {
	cfg := DefaultRouterConfig()
	cfg.TrustIdentityHeaders = false
	h := newTestServer(t, cfg)

	w := upload(t, h, creatorHeaders, "Spoofed")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRoutesAreRateLimited(t *testing.T) {
	cfg := DefaultRouterConfig()
	cfg.AuthRateLimit = middleware.RateLimitConfig{Limit: 2, Window: time.Minute}
	h := newTestServer(t, cfg)

	signin := request{method: http.MethodPost, path: "/signin", body: `{"email":"a@b.co","password":"secret1"}`}
	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusBadRequest, do(t, h, signin).Code)
	}
	w := do(t, h, signin)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	// Reads are not limited
	assert.Equal(t, http.StatusOK, do(t, h, request{method: http.MethodGet, path: "/photos"}).Code)
}

func TestCORS(t *testing.T) {
	h := newTestServer(t, DefaultRouterConfig())

	w := do(t, h, request{method: http.MethodOptions, path: "/photos", headers: map[string]string{
		"Origin":                        "https://gallery.example.com",
		"Access-Control-Request-Method": "GET",
	}})
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
