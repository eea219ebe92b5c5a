package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/yukikurage/agency-project-tracker/internal/posts"
)

func (suite *APITestSuite) TestPosts_List() {
	w := suite.request(http.MethodGet, "/api/posts", nil, suite.login("sales@cmtai.com"))

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`[{"id":"1"}]`, w.Body.String())
}

func (suite *APITestSuite) TestPosts_RequiresSession() {
	suite.Equal(http.StatusUnauthorized, suite.request(http.MethodGet, "/api/posts", nil, nil).Code)
}

func (suite *APITestSuite) TestPosts_CreateForwardsMultipart() {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	suite.Require().NoError(mw.WriteField("title", "Launch"))
	part, err := mw.CreateFormFile("image", "cover.png")
	suite.Require().NoError(err)
	_, err = part.Write([]byte("png-bytes"))
	suite.Require().NoError(err)
	suite.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/posts", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(suite.login("sales@cmtai.com"))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	suite.Equal("Launch", suite.posts.form.Fields["title"])
	suite.Require().NotNil(suite.posts.form.File)
	suite.Equal("cover.png", suite.posts.form.File.FileName)
}

func (suite *APITestSuite) TestPosts_CreateRejectsTruncatedMultipart() {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	suite.Require().NoError(mw.WriteField("title", "Launch"))
	suite.Require().NoError(mw.Close())
	truncated := strings.TrimSuffix(body.String(), "--"+mw.Boundary()+"--\r\n")

	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(truncated))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(suite.login("sales@cmtai.com"))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code, w.Body.String())
	suite.Nil(suite.posts.form.Fields, "nothing is forwarded upstream")
}

func (suite *APITestSuite) TestPosts_UpdateAndDelete() {
	session := suite.login("sales@cmtai.com")

	req := httptest.NewRequest(http.MethodPut, "/api/posts/7", bytes.NewBufferString("title=Renamed"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(session)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Equal("7", suite.posts.form.Fields["id"])
	suite.Equal("Renamed", suite.posts.form.Fields["title"])

	w = suite.request(http.MethodDelete, "/api/posts/7", nil, session)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("7", suite.posts.deleted)
}

func (suite *APITestSuite) TestPosts_UpstreamError() {
	suite.posts.err = &posts.HTTPError{Method: http.MethodGet, Path: "/api/get-posts", StatusCode: http.StatusInternalServerError, Body: "boom"}

	w := suite.request(http.MethodGet, "/api/posts", nil, suite.login("sales@cmtai.com"))

	suite.Equal(http.StatusBadGateway, w.Code)
	suite.Contains(w.Body.String(), "boom")
}
