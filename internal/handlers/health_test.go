package handlers

import (
	"errors"
	"net/http"

	"github.com/DATA-DOG/go-sqlmock"
)

func (suite *APITestSuite) TestHealth_NoChecks() {
	w := suite.request(http.MethodGet, "/health", nil, nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *APITestSuite) TestHealth_DatabasePing() {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	suite.Require().NoError(err)
	defer db.Close()

	suite.checks["database"] = db
	suite.buildRouter()

	mock.ExpectPing()
	w := suite.request(http.MethodGet, "/health", nil, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"database":"ok"`)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	w = suite.request(http.MethodGet, "/health", nil, nil)
	suite.Equal(http.StatusServiceUnavailable, w.Code)
	suite.Contains(w.Body.String(), "degraded")

	suite.NoError(mock.ExpectationsWereMet())
}
