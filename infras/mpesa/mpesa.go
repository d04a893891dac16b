package mpesa

//go:generate go run go.uber.org/mock/mockgen -source=./mpesa.go -destination=./mocks/mpesa_mock.go -package=mocks

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"rentwheels/config"
	"rentwheels/infras/otel"
	"rentwheels/shared/constant"
	"rentwheels/shared/envelope"
	"rentwheels/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	oauthPath   = "/oauth/v1/generate?grant_type=client_credentials"
	stkPushPath = "/mpesa/stkpush/v1/processrequest"

	timestampLayout = "20060102150405"

	otelAttrReference = "mpesa.reference"
	otelAttrCheckout  = "mpesa.checkout_request_id"
)

// STKPushRequest carries everything needed to prompt a customer's phone for
// payment. Amount is in minor currency units; the gateway is billed in whole
// units.
type STKPushRequest struct {
	PhoneNumber string
	Amount      int64
	Reference   string
	Description string
}

// STKPushResponse is the gateway acknowledgement of a push request. The
// CheckoutRequestID correlates the asynchronous result callback with the
// pending payment.
type STKPushResponse struct {
	MerchantRequestID string `json:"MerchantRequestID"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
	ResponseCode      string `json:"ResponseCode"`
	ResponseDesc      string `json:"ResponseDescription"`
	CustomerMessage   string `json:"CustomerMessage"`
}

// Transaction is a settled gateway-side record, pulled during
// reconciliation.
type Transaction struct {
	CheckoutRequestID string `json:"checkout_request_id"`
	ReceiptNumber     string `json:"receipt_number"`
	Amount            int64  `json:"amount"`
	PhoneNumber       string `json:"phone_number"`
	Status            string `json:"status"`
}

const (
	TransactionStatusSuccess = "Success"
	TransactionStatusFailed  = "Failed"
	TransactionStatusPending = "Pending"
)

type Mpesa interface {
	InitiateSTKPush(ctx context.Context, req STKPushRequest) (STKPushResponse, error)
	ListTransactions(ctx context.Context, since time.Time) ([]Transaction, error)
}

type mpesaImpl struct {
	config *config.Config
	client *http.Client
	otel   otel.Otel
}

func New(cfg *config.Config, ot otel.Otel) Mpesa {
	timeout := cfg.External.Mpesa.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	return &mpesaImpl{
		config: cfg,
		client: &http.Client{Timeout: time.Duration(timeout) * time.Second},
		otel:   ot,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

func (m *mpesaImpl) accessToken(ctx context.Context) (token string, err error) {
	ctx, scope := m.otel.NewScope(ctx, constant.OtelMpesaScopeName, constant.OtelMpesaScopeName+".accessToken")
	defer scope.End()
	defer scope.TraceIfError(err)

	mpesaCfg := m.config.External.Mpesa

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, mpesaCfg.BaseURL+oauthPath, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}

	basic := base64.StdEncoding.EncodeToString([]byte(mpesaCfg.ConsumerKey + ":" + mpesaCfg.ConsumerSecret))
	request.Header.Set(constant.RequestHeaderAuthorization, "Basic "+basic)

	response, err := m.client.Do(request)
	if err != nil {
		return "", fmt.Errorf("failed to request gateway token: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway token request returned status %d", response.StatusCode)
	}

	var tokenRes tokenResponse
	if err = json.NewDecoder(response.Body).Decode(&tokenRes); err != nil {
		return "", fmt.Errorf("failed to decode gateway token response: %w", err)
	}

	return tokenRes.AccessToken, nil
}

func (m *mpesaImpl) InitiateSTKPush(ctx context.Context, req STKPushRequest) (res STKPushResponse, err error) {
	ctx, scope := m.otel.NewScope(ctx, constant.OtelMpesaScopeName, constant.OtelMpesaScopeName+".InitiateSTKPush")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelAttrReference, req.Reference)

	// The gateway only accepts whole currency units. Refuse amounts that
	// would silently lose their sub-unit remainder.
	if req.Amount <= 0 || req.Amount%constant.MinorUnitsPerUnit != 0 {
		return res, fmt.Errorf("amount %d is not billable in whole currency units", req.Amount)
	}

	token, err := m.accessToken(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to obtain gateway token")

		return res, err
	}

	mpesaCfg := m.config.External.Mpesa
	timestamp := timezone.Now().Format(timestampLayout)
	stkPassword := base64.StdEncoding.EncodeToString([]byte(mpesaCfg.ShortCode + mpesaCfg.Passkey + timestamp))

	reference := mpesaCfg.AccountReference
	if req.Reference != "" {
		reference = req.Reference
	}

	payload := map[string]any{
		"BusinessShortCode": mpesaCfg.ShortCode,
		"Password":          stkPassword,
		"Timestamp":         timestamp,
		"TransactionType":   "CustomerPayBillOnline",
		"Amount":            req.Amount / constant.MinorUnitsPerUnit,
		"PartyA":            req.PhoneNumber,
		"PartyB":            mpesaCfg.ShortCode,
		"PhoneNumber":       req.PhoneNumber,
		"CallBackURL":       mpesaCfg.CallbackURL,
		"AccountReference":  reference,
		"TransactionDesc":   req.Description,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return res, fmt.Errorf("failed to marshal STK push payload: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, mpesaCfg.BaseURL+stkPushPath, bytes.NewReader(body))
	if err != nil {
		return res, fmt.Errorf("failed to build STK push request: %w", err)
	}

	request.Header.Set(constant.RequestHeaderAuthorization, "Bearer "+token)
	request.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)

	response, err := m.client.Do(request)
	if err != nil {
		return res, fmt.Errorf("failed to send STK push request: %w", err)
	}
	defer response.Body.Close()

	if err = json.NewDecoder(response.Body).Decode(&res); err != nil {
		return res, fmt.Errorf("failed to decode STK push response: %w", err)
	}

	if response.StatusCode != http.StatusOK || res.ResponseCode != "0" {
		return res, fmt.Errorf("gateway rejected STK push: %s", res.ResponseDesc)
	}

	scope.SetAttribute(otelAttrCheckout, res.CheckoutRequestID)

	return res, nil
}

// ListTransactions pulls settled transactions from the gateway's
// reconciliation endpoint. The endpoint does not commit to a single response
// envelope, so the body goes through the envelope normalizer.
func (m *mpesaImpl) ListTransactions(ctx context.Context, since time.Time) (transactions []Transaction, err error) {
	ctx, scope := m.otel.NewScope(ctx, constant.OtelMpesaScopeName, constant.OtelMpesaScopeName+".ListTransactions")
	defer scope.End()
	defer scope.TraceIfError(err)

	token, err := m.accessToken(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to obtain gateway token")

		return nil, err
	}

	mpesaCfg := m.config.External.Mpesa

	url := fmt.Sprintf("%s%s?since=%s", mpesaCfg.BaseURL, mpesaCfg.TransactionsPath, since.UTC().Format(time.RFC3339))

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build transactions request: %w", err)
	}

	request.Header.Set(constant.RequestHeaderAuthorization, "Bearer "+token)

	response, err := m.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to list gateway transactions: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway transactions request returned status %d", response.StatusCode)
	}

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway transactions response: %w", err)
	}

	return envelope.Normalize[Transaction](raw, "transactions"), nil
}
