package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/careermate/go-career-backend/internal/auth"
	"github.com/careermate/go-career-backend/internal/config"
	"github.com/careermate/go-career-backend/internal/domain"
	"github.com/careermate/go-career-backend/internal/http/middleware"
	"github.com/careermate/go-career-backend/internal/repo"
	"github.com/careermate/go-career-backend/internal/services"
	"github.com/careermate/go-career-backend/internal/uploads"
)

const testSecret = "handler-test-secret"

// ---------- test DB ----------

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique DSN per call to avoid cross-test contamination
	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	db.Exec("PRAGMA foreign_keys=ON;")
	require.NoError(t, repo.AutoMigrate(db))
	return db
}

// ---------- fakes for deps the chat routes never exercise ----------

type fakeUploadStore struct {
	name string
	err  error

	gotName string
	gotType string
	gotBody []byte
}

func (f *fakeUploadStore) Save(originalName, contentType string, r io.Reader) (string, error) {
	f.gotName = originalName
	f.gotType = contentType
	f.gotBody, _ = io.ReadAll(r)
	if f.err != nil {
		return "", f.err
	}
	if f.name == "" {
		f.name = "123-" + originalName
	}
	return f.name, nil
}

func chatRouter(t *testing.T, db *gorm.DB, store UploadStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if store == nil {
		store = &fakeUploadStore{}
	}
	chatSvc := &services.ChatService{DB: db}
	h := New(Deps{
		Conversations: chatSvc,
		Uploads:       store,
		Auth:          config.AuthConfig{JWTSecret: testSecret, JWTTTL: time.Hour},
	})

	rc := middleware.ResolverConfig{DB: db, Secret: testSecret, TTL: time.Hour}
	r := gin.New()
	r.Use(middleware.Principal(testSecret))
	grp := r.Group("/chatbot")
	grp.POST("/message", middleware.ResolveConversation(rc, middleware.SessionHeader, domain.KindSession), h.PostChatMessage)
	grp.GET("/getmessage/:id", h.GetSession)
	grp.GET("/getusermessage", middleware.RequireAuth(), h.ListUserSessions)
	return r
}

func jsonBody(body any) *bytes.Reader {
	b, _ := json.Marshal(body)
	return bytes.NewReader(b)
}

func postJSON(r http.Handler, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ---------- tests ----------

func TestPostChatMessage_MintsSessionAndReplies(t *testing.T) {
	db := newHandlerDB(t)
	r := chatRouter(t, db, nil)

	w := postJSON(r, "/chatbot/message", gin.H{"message": "I want a remote job"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ChatMessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "Are you looking for remote jobs?", resp.BotResponse)

	// Same id on a follow-up keeps appending to one thread.
	w2 := postJSON(r, "/chatbot/message", gin.H{"message": "yes, a data job"},
		map[string]string{middleware.SessionHeader: resp.SessionID})
	require.Equal(t, http.StatusOK, w2.Code)

	var resp2 ChatMessageResponse
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &resp2))
	assert.Equal(t, resp.SessionID, resp2.SessionID)
	assert.Equal(t, "What type of job are you looking for?", resp2.BotResponse)

	msgs, err := repo.ListMessages(db, resp.SessionID)
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	assert.Equal(t, domain.SenderUser, msgs[0].Sender)
	assert.Equal(t, domain.SenderBot, msgs[3].Sender)
}

func TestPostChatMessage_MultipartAttachment(t *testing.T) {
	db := newHandlerDB(t)
	store := &fakeUploadStore{name: "777-resume.pdf"}
	r := chatRouter(t, db, store)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("message", "please review my resume"))
	hdr := make(map[string][]string)
	hdr["Content-Disposition"] = []string{`form-data; name="file"; filename="resume.pdf"`}
	hdr["Content-Type"] = []string{"application/pdf"}
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/chatbot/message", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "resume.pdf", store.gotName)
	assert.Equal(t, "application/pdf", store.gotType)
	assert.Equal(t, []byte("%PDF-1.4"), store.gotBody)

	var resp ChatMessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	msgs, err := repo.ListMessages(db, resp.SessionID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "/uploads/777-resume.pdf", msgs[0].FileURL)
	assert.Equal(t, "resume.pdf", msgs[0].OriginalName)
}

func TestPostChatMessage_RejectedUpload(t *testing.T) {
	db := newHandlerDB(t)
	store := &fakeUploadStore{err: uploads.ErrUnsupportedType}
	r := chatRouter(t, db, store)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "malware.exe")
	require.NoError(t, err)
	_, err = part.Write([]byte("MZ"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/chatbot/message", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ErrCodeUploadRejected, resp.Code)
}

func TestPostChatMessage_EmptyMessage(t *testing.T) {
	db := newHandlerDB(t)
	r := chatRouter(t, db, nil)

	w := postJSON(r, "/chatbot/message", gin.H{"message": "   "}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ErrCodeBadRequest, resp.Code)
}

func TestPostChatMessage_MalformedBearerIs400(t *testing.T) {
	db := newHandlerDB(t)
	r := chatRouter(t, db, nil)

	w := postJSON(r, "/chatbot/message", gin.H{"message": "hello"},
		map[string]string{"Authorization": "Token abc"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Nothing was persisted.
	var count int64
	require.NoError(t, db.Model(&domain.Conversation{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetSession(t *testing.T) {
	db := newHandlerDB(t)
	r := chatRouter(t, db, nil)

	w := postJSON(r, "/chatbot/message", gin.H{"message": "hello"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sent ChatMessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sent))

	req := httptest.NewRequest(http.MethodGet, "/chatbot/getmessage/"+sent.SessionID, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, sent.SessionID, resp.SessionID)
	require.Len(t, resp.Conversation, 2)
	assert.Equal(t, "hello", resp.Conversation[0].Content)

	// Unknown id is a 404, not a new session.
	req = httptest.NewRequest(http.MethodGet, "/chatbot/getmessage/"+uuid.NewString(), nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListUserSessions(t *testing.T) {
	db := newHandlerDB(t)
	r := chatRouter(t, db, nil)

	// Anonymous is rejected outright.
	req := httptest.NewRequest(http.MethodGet, "/chatbot/getusermessage", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	uid := uuid.NewString()
	token, err := auth.SignToken(uid, testSecret, time.Hour)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		w := postJSON(r, "/chatbot/message", gin.H{"message": "hello"},
			map[string]string{"Authorization": "Bearer " + token})
		require.Equal(t, http.StatusOK, w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/chatbot/getusermessage?page=1&page_size=2", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ListSessionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Sessions, 2)
	assert.Equal(t, int64(3), resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
	assert.True(t, resp.Pagination.HasNext)
}

func TestListUserSessions_ETag(t *testing.T) {
	db := newHandlerDB(t)
	r := chatRouter(t, db, nil)

	uid := uuid.NewString()
	token, err := auth.SignToken(uid, testSecret, time.Hour)
	require.NoError(t, err)
	authz := map[string]string{"Authorization": "Bearer " + token}

	w := postJSON(r, "/chatbot/message", gin.H{"message": "hello"}, authz)
	require.Equal(t, http.StatusOK, w.Code)

	list := func(inm string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/chatbot/getusermessage", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		if inm != "" {
			req.Header.Set("If-None-Match", inm)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	first := list("")
	require.Equal(t, http.StatusOK, first.Code)
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)

	// Unchanged list short-circuits to 304.
	cached := list(etag)
	assert.Equal(t, http.StatusNotModified, cached.Code)
	assert.Empty(t, cached.Body.String())

	// A new session invalidates the tag.
	w = postJSON(r, "/chatbot/message", gin.H{"message": "another"}, authz)
	require.Equal(t, http.StatusOK, w.Code)

	fresh := list(etag)
	assert.Equal(t, http.StatusOK, fresh.Code)
	assert.NotEqual(t, etag, fresh.Header().Get("ETag"))
}
