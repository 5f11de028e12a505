package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zaqqye/eduapp_backend/internal/models"
	"github.com/zaqqye/eduapp_backend/internal/quiz"
	"github.com/zaqqye/eduapp_backend/internal/registry"
	"github.com/zaqqye/eduapp_backend/internal/storage"
)

func TestStudentNumber(t *testing.T) {
	var req struct {
		Number StudentNumber `json:"n"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"n": 12345}`), &req))
	assert.Equal(t, "12345", req.Number.String())
	require.NoError(t, json.Unmarshal([]byte(`{"n": "  S-9 "}`), &req))
	assert.Equal(t, "S-9", req.Number.String())
	assert.Error(t, json.Unmarshal([]byte(`{"n": 12.5}`), &req))
	assert.Error(t, json.Unmarshal([]byte(`{"n": [1]}`), &req))
}

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err  error
		code int
	}{
		{errors.Wrap(registry.ErrCodeNotFound, "redeem"), http.StatusNotFound},
		{registry.ErrNotFound, http.StatusNotFound},
		{quiz.ErrAttemptNotFound, http.StatusNotFound},
		{registry.ErrCodeSpaceExhausted, http.StatusConflict},
		{quiz.ErrAttemptCompleted, http.StatusConflict},
		{quiz.ErrInvalidOption, http.StatusBadRequest},
		{&registry.ValidationError{Msg: "title is required"}, http.StatusBadRequest},
		{&storageError{err: errors.New("timeout")}, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		respondError(c, zap.NewNop(), tc.err)
		assert.Equal(t, tc.code, w.Code, tc.err.Error())
	}
}

func TestListOptionsFromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?limit=5&page=3&sort_by=title&sort_dir=asc", nil)
	opts := listOptions(c)
	assert.Equal(t, 5, opts.Limit)
	assert.Equal(t, 10, opts.Offset())
	assert.Equal(t, "title ASC", opts.Order())

	meta := listMeta(opts, 11)
	assert.Equal(t, int64(3), meta["total_pages"])

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?limit=-1&sort_by=password&all=1", nil)
	opts = listOptions(c)
	assert.True(t, opts.All)
	assert.Equal(t, "created_at DESC", opts.Order())
}

func TestSignPayload(t *testing.T) {
	assert.Empty(t, signPayload("  ", []byte("{}")))
	a := signPayload("k", []byte(`{"a":1}`))
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, signPayload("k", []byte(`{"a":2}`)))
}

func TestApplyUserPlaceholders_EscapesName(t *testing.T) {
	u := &models.User{FullName: `Ana "the" Best`, Role: models.RoleStudent, UserID: "u1"}
	out := applyUserPlaceholders([]byte(`{"greeting":"Hi {{full_name}}","id":"{{user_id}}"}`), u)
	var v map[string]string
	require.NoError(t, json.Unmarshal(out, &v))
	assert.Equal(t, `Hi Ana "the" Best`, v["greeting"])
	assert.Equal(t, "u1", v["id"])
}

func TestApplyUserPlaceholders_AnonymousBlanksTokens(t *testing.T) {
	out := applyUserPlaceholders([]byte(`{"greeting":"Welcome, {{full_name}}","role":"{{role}}"}`), nil)
	assert.JSONEq(t, `{"greeting":"Welcome, ","role":""}`, string(out))
}

func TestViewOf_HidesAnswersFromStudents(t *testing.T) {
	rec := &models.Resource{
		ID: "id", Kind: models.KindQuiz, Title: "Q", Code: "ABCDEF",
		Questions: []models.Question{{Text: "x", Options: []string{"a", "b"}, CorrectOption: 1}},
	}
	assert.Nil(t, viewOf(rec, false).Answers)
	assert.Equal(t, 1, viewOf(rec, false).QuestionCount)
	assert.Len(t, viewOf(rec, true).Answers, 1)
}

func TestMaterialDiscard_RemovesOrphanedBlob(t *testing.T) {
	store := storage.NewMemoryStore("/files")
	ctx := context.Background()
	key := "materials/AAAAAA/secret-exam.pdf"
	require.NoError(t, store.Put(ctx, key, strings.NewReader("exam"), "application/pdf"))

	m := &MaterialController{Store: store, Log: zap.NewNop(), Prefix: "materials"}
	m.discard(ctx, registry.QuizPayload{})
	m.discard(ctx, registry.MaterialPayload{ObjectKey: key})

	objs, err := store.List(ctx, storage.CodePrefix("materials", "AAAAAA"))
	require.NoError(t, err)
	assert.Empty(t, objs)
}
