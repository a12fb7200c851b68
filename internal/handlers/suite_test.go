package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/SscSPs/bookkeeping_app/internal/handlers"
	"github.com/SscSPs/bookkeeping_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
)

const (
	testSecret = "test-secret-key-that-is-long-enough"
	testIssuer = "books-test"
	testUserID = "user-42"
)

// envelope mirrors dto.Response with the payload left raw.
type envelope struct {
	OK      bool            `json:"ok"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorBody  `json:"error"`
}

type HandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockAccount   *MockAccountService
	mockJournal   *MockJournalService
	mockPosting   *MockPostingService
	mockLedger    *MockLedgerService
	mockReporting *MockReportingService
}

// generateTestToken creates a signed JWT for testing.
func (suite *HandlerTestSuite) generateTestToken(userID string, issuer string, ttl time.Duration) string {
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	suite.mockAccount = new(MockAccountService)
	suite.mockJournal = new(MockJournalService)
	suite.mockPosting = new(MockPostingService)
	suite.mockLedger = new(MockLedgerService)
	suite.mockReporting = new(MockReportingService)

	cfg := &config.Config{
		IsProduction:   true,
		JWTSecret:      testSecret,
		JWTIssuer:      testIssuer,
		RequestTimeout: 5 * time.Second,
	}
	err := handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Account:   suite.mockAccount,
		Journal:   suite.mockJournal,
		Posting:   suite.mockPosting,
		Ledger:    suite.mockLedger,
		Reporting: suite.mockReporting,
	})
	suite.Require().NoError(err)
}

func (suite *HandlerTestSuite) TearDownTest() {
	suite.mockAccount.AssertExpectations(suite.T())
	suite.mockJournal.AssertExpectations(suite.T())
	suite.mockPosting.AssertExpectations(suite.T())
	suite.mockLedger.AssertExpectations(suite.T())
	suite.mockReporting.AssertExpectations(suite.T())
}

// request serves an authenticated request; body is JSON encoded when not nil.
func (suite *HandlerTestSuite) request(method, url string, body any) *httptest.ResponseRecorder {
	return suite.requestWithToken(method, url, body, suite.generateTestToken(testUserID, testIssuer, time.Hour))
}

func (suite *HandlerTestSuite) requestWithToken(method, url string, body any, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) decode(w *httptest.ResponseRecorder) envelope {
	var env envelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// decodeData decodes a successful envelope's payload into out.
func (suite *HandlerTestSuite) decodeData(w *httptest.ResponseRecorder, out any) envelope {
	env := suite.decode(w)
	suite.Require().True(env.OK, w.Body.String())
	suite.Require().NoError(json.Unmarshal(env.Data, out))
	return env
}

// --- Run Test Suite ---
func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
