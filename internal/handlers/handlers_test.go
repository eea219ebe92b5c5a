package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/agency-project-tracker/internal/constants"
	"github.com/yukikurage/agency-project-tracker/internal/database"
	"github.com/yukikurage/agency-project-tracker/internal/posts"
	"github.com/yukikurage/agency-project-tracker/internal/repository"
	"github.com/yukikurage/agency-project-tracker/internal/services"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type stubChat struct {
	content string
}

func (s *stubChat) CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: s.content}}},
	}, nil
}

type stubPosts struct {
	form    posts.PostForm
	deleted string
	err     error
}

func (s *stubPosts) Create(_ context.Context, form posts.PostForm) (json.RawMessage, error) {
	s.form = form
	return json.RawMessage(`{"id":"new"}`), s.err
}

func (s *stubPosts) List(context.Context) (json.RawMessage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(`[{"id":"1"}]`), nil
}

func (s *stubPosts) Delete(_ context.Context, id string) (json.RawMessage, error) {
	s.deleted = id
	return json.RawMessage(`{"message":"deleted"}`), s.err
}

func (s *stubPosts) Update(_ context.Context, form posts.PostForm) (json.RawMessage, error) {
	s.form = form
	return json.RawMessage(`{"id":"updated"}`), s.err
}

// APITestSuite runs requests through the full router with in-memory stores
type APITestSuite struct {
	suite.Suite
	router   *gin.Engine
	identity *services.IdentityService
	projects *services.ProjectService
	feed     *services.NotificationFeed
	posts    *stubPosts
	checks   map[string]database.Pinger
	scoped   bool
	now      time.Time
}

func (suite *APITestSuite) SetupTest() {
	suite.Require().NoError(RegisterValidators())
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	suite.now = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	suite.feed = services.NewNotificationFeed(constants.MaxNotificationFeedLength, zap.NewNop())

	var err error
	suite.identity, err = services.NewIdentityService(ctx, repository.NewMemoryUserRepository(), suite.feed, zap.NewNop(),
		services.WithPasswordCost(bcrypt.MinCost))
	suite.Require().NoError(err)
	suite.projects, err = services.NewProjectService(ctx, repository.NewMemoryProjectRepository(), suite.feed, zap.NewNop(),
		services.WithClock(func() time.Time { return suite.now }))
	suite.Require().NoError(err)

	suite.posts = &stubPosts{}
	suite.checks = map[string]database.Pinger{}
	suite.buildRouter()
}

func (suite *APITestSuite) buildRouter() {
	ai := services.NewAIServiceWithClient(&stubChat{content: `[{"title":"Set up hosting"}]`})

	suite.router = gin.New()
	suite.router.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("test-secret"))))
	RegisterRoutes(suite.router, Handlers{
		Auth:      NewAuthHandler(suite.identity),
		Assignees: NewAssigneeHandler(suite.identity, suite.projects),
		Projects: NewProjectHandler(suite.projects, suite.identity, ai, ProjectHandlerConfig{
			ScopeAssigneeToProject: suite.scoped,
			RenewalWindow:          15 * 24 * time.Hour,
			Now:                    func() time.Time { return suite.now },
		}),
		Track:         NewTrackHandler(suite.projects),
		Notifications: NewNotificationHandler(suite.feed),
		Posts:         NewPostHandler(suite.posts),
		Health:        NewHealthHandler(suite.checks),
	}, suite.identity, suite.projects)
}

// login signs in with the seeded account and returns its session cookie
func (suite *APITestSuite) login(email string) *http.Cookie {
	w := suite.request(http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": services.DemoPassword}, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	cookies := w.Result().Cookies()
	suite.Require().NotEmpty(cookies)
	return cookies[0]
}

func (suite *APITestSuite) request(method, path string, body interface{}, session *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		req = httptest.NewRequest(method, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if session != nil {
		req.AddCookie(session)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *APITestSuite) decode(w *httptest.ResponseRecorder, out interface{}) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}
