package integration_tests

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getAlby/lnurlhub.go/controllers"
	"github.com/getAlby/lnurlhub.go/lib"
	"github.com/getAlby/lnurlhub.go/lib/responses"
	"github.com/getAlby/lnurlhub.go/lib/service"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type LnurlpTestSuite struct {
	TestSuite
	service *service.LnurlService
}

func (suite *LnurlpTestSuite) SetupSuite() {
	svc, err := LnurlTestServiceInit(newDefaultMockLND())
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	suite.service = svc

	ctx := context.Background()
	pubkey, err := randomPubkeyHex()
	assert.NoError(suite.T(), err)
	_, err = svc.RegisterUser(ctx, "alice", pubkey)
	assert.NoError(suite.T(), err)
	pubkey, err = randomPubkeyHex()
	assert.NoError(suite.T(), err)
	_, err = svc.RegisterUser(ctx, "mute", pubkey)
	assert.NoError(suite.T(), err)
	_, err = svc.UpdateZapsDisabled(ctx, "mute", true)
	assert.NoError(suite.T(), err)

	e := echo.New()
	e.HTTPErrorHandler = responses.HTTPErrorHandler
	e.Validator = &lib.CustomValidator{Validator: validator.New()}
	suite.echo = e
	suite.echo.GET("/.well-known/lnurlp/:name", controllers.NewLnurlpController(suite.service).Lnurlp)
}

func (suite *LnurlpTestSuite) TearDownSuite() {
	clearTable(suite.service, "users")
}

func (suite *LnurlpTestSuite) TestPayParameters() {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/.well-known/lnurlp/alice", nil)
	suite.echo.ServeHTTP(rec, req)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	payResponse := &controllers.PayResponseBody{}
	err := json.NewDecoder(rec.Body).Decode(payResponse)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "https://ln.example.com/get-invoice/alice", payResponse.Callback)
	assert.Equal(suite.T(), int64(1000), payResponse.MinSendable)
	assert.Equal(suite.T(), int64(11000000000), payResponse.MaxSendable)
	assert.Equal(suite.T(), `[["text/identifier","alice@ln.example.com"],["text/plain","Sats for alice"]]`, payResponse.Metadata)
	assert.Equal(suite.T(), 100, payResponse.CommentAllowed)
	assert.Equal(suite.T(), "payRequest", payResponse.Tag)
	assert.True(suite.T(), payResponse.AllowsNostr)

	expectedPubkey, err := suite.service.NostrPubkey()
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), expectedPubkey, payResponse.NostrPubkey)
}

func (suite *LnurlpTestSuite) TestPayParametersWithZapsDisabled() {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/.well-known/lnurlp/mute", nil)
	suite.echo.ServeHTTP(rec, req)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	payResponse := &controllers.PayResponseBody{}
	err := json.NewDecoder(rec.Body).Decode(payResponse)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), payResponse.AllowsNostr)
}

func (suite *LnurlpTestSuite) TestPayParametersForUnknownName() {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/.well-known/lnurlp/nobody", nil)
	suite.echo.ServeHTTP(rec, req)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	errorResponse := checkLnurlErrResponse(&suite.TestSuite, rec)
	assert.Equal(suite.T(), "User not found", errorResponse.Reason)
}

func TestLnurlpSuite(t *testing.T) {
	suite.Run(t, new(LnurlpTestSuite))
}
