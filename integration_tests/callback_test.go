package integration_tests

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/getAlby/lnurlhub.go/common"
	"github.com/getAlby/lnurlhub.go/controllers"
	"github.com/getAlby/lnurlhub.go/db/models"
	"github.com/getAlby/lnurlhub.go/lib"
	"github.com/getAlby/lnurlhub.go/lib/responses"
	"github.com/getAlby/lnurlhub.go/lib/service"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type CallbackTestSuite struct {
	TestSuite
	service *service.LnurlService
	mlnd    *MockLND
}

func (suite *CallbackTestSuite) SetupSuite() {
	mockLND := newDefaultMockLND()
	svc, err := LnurlTestServiceInit(mockLND)
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	suite.service = svc
	suite.mlnd = mockLND

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
	suite.echo.GET("/get-invoice/:name", controllers.NewInvoiceController(suite.service).GetInvoice)
}

func (suite *CallbackTestSuite) TearDownTest() {
	clearTable(suite.service, "zaps")
	clearTable(suite.service, "invoices")
}

func (suite *CallbackTestSuite) TearDownSuite() {
	clearTable(suite.service, "users")
}

func (suite *CallbackTestSuite) getInvoice(target string) (*httptest.ResponseRecorder, *controllers.CallbackResponseBody) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	suite.echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		return rec, nil
	}
	callbackResponse := &controllers.CallbackResponseBody{}
	err := json.NewDecoder(rec.Body).Decode(callbackResponse)
	assert.NoError(suite.T(), err)
	return rec, callbackResponse
}

func (suite *CallbackTestSuite) zapRequest() string {
	sk := nostr.GeneratePrivateKey()
	event := nostr.Event{
		Kind:      nostr.KindZapRequest,
		CreatedAt: nostr.Now(),
		Content:   "great post",
		Tags: nostr.Tags{
			{"p", "b2d670de53b27691c0c3400225b65c35a26d06093bcc41f48ffc71e0907f9d4a"},
			{"amount", "5000000"},
			{"relays", "wss://relay.example.com"},
		},
	}
	err := event.Sign(sk)
	assert.NoError(suite.T(), err)
	payload, err := event.MarshalJSON()
	assert.NoError(suite.T(), err)
	return string(payload)
}

func (suite *CallbackTestSuite) TestCallbackIssuesInvoice() {
	rec, callbackResponse := suite.getInvoice("/get-invoice/alice?amount=5000000")
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Equal(suite.T(), "OK", callbackResponse.Status)
	assert.Empty(suite.T(), callbackResponse.Routes)

	// the issued payment request commits to the configured metadata
	decoded, err := suite.service.DecodePaymentRequest(context.Background(), callbackResponse.Pr)
	assert.NoError(suite.T(), err)
	assert.EqualValues(suite.T(), 5000000, int64(*decoded.MilliSat))
	expectedCommitment := service.DescriptionHash([]byte(service.EncodeMetadata("alice", suite.service.Config.Domain)))
	assert.Equal(suite.T(), expectedCommitment[:], decoded.DescriptionHash[:])

	invoice, err := suite.service.FindInvoiceByPaymentHash(context.Background(), hex.EncodeToString(decoded.PaymentHash[:]))
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), common.InvoiceStatePending, invoice.State)
	assert.Equal(suite.T(), hex.EncodeToString(expectedCommitment[:]), invoice.DescriptionHash)
	assert.EqualValues(suite.T(), 5000000, invoice.Amount)

	count, err := suite.service.DB.NewSelect().Model((*models.Zap)(nil)).Count(context.Background())
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, count)
}

func (suite *CallbackTestSuite) TestCallbackWithZapRequest() {
	payload := suite.zapRequest()
	rec, callbackResponse := suite.getInvoice("/get-invoice/alice?amount=5000000&nostr=" + url.QueryEscape(payload))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	// the commitment covers the raw zap request payload, not the metadata
	decoded, err := suite.service.DecodePaymentRequest(context.Background(), callbackResponse.Pr)
	assert.NoError(suite.T(), err)
	expectedCommitment := service.DescriptionHash([]byte(payload))
	assert.Equal(suite.T(), expectedCommitment[:], decoded.DescriptionHash[:])

	invoice, err := suite.service.FindInvoiceByPaymentHash(context.Background(), hex.EncodeToString(decoded.PaymentHash[:]))
	assert.NoError(suite.T(), err)

	// the zap row shares the invoice id and stores the payload verbatim
	zap := &models.Zap{}
	err = suite.service.DB.NewSelect().Model(zap).Where("id = ?", invoice.ID).Scan(context.Background())
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), payload, zap.Request)
}

func (suite *CallbackTestSuite) TestCallbackWithoutAmount() {
	rec, _ := suite.getInvoice("/get-invoice/alice")
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	errorResponse := checkLnurlErrResponse(&suite.TestSuite, rec)
	assert.Equal(suite.T(), "Missing amount parameter", errorResponse.Reason)
	suite.assertNoRows()
}

func (suite *CallbackTestSuite) TestCallbackWithAmountOutOfBounds() {
	rec, _ := suite.getInvoice("/get-invoice/alice?amount=1")
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	errorResponse := checkLnurlErrResponse(&suite.TestSuite, rec)
	assert.Equal(suite.T(), "Amount out of bounds", errorResponse.Reason)

	rec, _ = suite.getInvoice("/get-invoice/alice?amount=11000000001")
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	errorResponse = checkLnurlErrResponse(&suite.TestSuite, rec)
	assert.Equal(suite.T(), "Amount out of bounds", errorResponse.Reason)
	suite.assertNoRows()
}

func (suite *CallbackTestSuite) TestCallbackForUnknownName() {
	rec, _ := suite.getInvoice("/get-invoice/bob?amount=5000000")
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	errorResponse := checkLnurlErrResponse(&suite.TestSuite, rec)
	assert.Equal(suite.T(), "User not found", errorResponse.Reason)
	suite.assertNoRows()
}

func (suite *CallbackTestSuite) TestCallbackWithZapsDisabled() {
	rec, _ := suite.getInvoice("/get-invoice/mute?amount=5000000&nostr=" + url.QueryEscape(suite.zapRequest()))
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	errorResponse := checkLnurlErrResponse(&suite.TestSuite, rec)
	assert.Equal(suite.T(), "Zaps are disabled for this user", errorResponse.Reason)
	suite.assertNoRows()
}

func (suite *CallbackTestSuite) TestCallbackWithZapsDisabledWithoutZapRequest() {
	// a disabled user must not get plain invoices either
	rec, _ := suite.getInvoice("/get-invoice/mute?amount=5000000")
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	errorResponse := checkLnurlErrResponse(&suite.TestSuite, rec)
	assert.Equal(suite.T(), "Zaps are disabled for this user", errorResponse.Reason)
	suite.assertNoRows()
}

func (suite *CallbackTestSuite) TestCallbackWithMismatchedInvoiceAmount() {
	suite.service.LndClient = &overstatingLND{suite.mlnd}
	defer func() { suite.service.LndClient = suite.mlnd }()

	rec, _ := suite.getInvoice("/get-invoice/alice?amount=5000000")
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	errorResponse := checkLnurlErrResponse(&suite.TestSuite, rec)
	assert.Equal(suite.T(), "Invoice amount mismatch", errorResponse.Reason)
	suite.assertNoRows()
}

func (suite *CallbackTestSuite) TestCallbackZapInsertIsAtomic() {
	// sabotage the zap table so the second insert of the transaction fails
	_, err := suite.service.DB.Exec("ALTER TABLE zaps RENAME TO zaps_unavailable")
	assert.NoError(suite.T(), err)

	rec, _ := suite.getInvoice("/get-invoice/alice?amount=5000000&nostr=" + url.QueryEscape(suite.zapRequest()))
	assert.Equal(suite.T(), http.StatusInternalServerError, rec.Code)

	_, err = suite.service.DB.Exec("ALTER TABLE zaps_unavailable RENAME TO zaps")
	assert.NoError(suite.T(), err)

	// the invoice insert succeeded inside the transaction but must have
	// been rolled back together with the failed zap insert
	suite.assertNoRows()
}

func (suite *CallbackTestSuite) TestCallbackWithInvalidZapRequest() {
	rec, _ := suite.getInvoice("/get-invoice/alice?amount=5000000&nostr=" + url.QueryEscape(`{"kind":1}`))
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	errorResponse := checkLnurlErrResponse(&suite.TestSuite, rec)
	assert.Equal(suite.T(), "Invalid zap request", errorResponse.Reason)
	suite.assertNoRows()
}

func (suite *CallbackTestSuite) TestCallbackWithOverlongComment() {
	comment := strings.Repeat("a", 101)
	rec, _ := suite.getInvoice("/get-invoice/alice?amount=5000000&comment=" + comment)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	errorResponse := checkLnurlErrResponse(&suite.TestSuite, rec)
	assert.Equal(suite.T(), "Comment too long", errorResponse.Reason)
	suite.assertNoRows()
}

func (suite *CallbackTestSuite) assertNoRows() {
	count, err := suite.service.DB.NewSelect().Model((*models.Invoice)(nil)).Count(context.Background())
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, count)
	count, err = suite.service.DB.NewSelect().Model((*models.Zap)(nil)).Count(context.Background())
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, count)
}

func TestCallbackSuite(t *testing.T) {
	suite.Run(t, new(CallbackTestSuite))
}
