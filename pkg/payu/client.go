package payu

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	StatusSuccess  = "success"
	statusNotFound = "not found"

	verifyCommand = "verify_payment"
)

var ErrTransactionNotFound = errors.New("payu transaction not found")

type Config struct {
	Key           string
	Salt          string
	PaymentURL    string
	VerifyURL     string
	BackendURL    string
	VerifyTimeout time.Duration
}

type PaymentRequest struct {
	TxnID       string
	Amount      float64
	ProductInfo string
	FirstName   string
	Email       string
	Phone       string
	UDF         [UDFCount]string
}

type Field struct {
	Name  string
	Value string
}

// Form is the signed, ordered field set the browser posts to the gateway.
type Form struct {
	Action string
	Fields []Field
}

func (f *Form) Get(name string) string {
	for _, field := range f.Fields {
		if field.Name == name {
			return field.Value
		}
	}

	return ""
}

// Transaction is the gateway's own record of a payment, fetched independently of the callback body.
type Transaction struct {
	TxnID     string
	PaymentID string
	Status    string
	Mode      string
	Amount    string
	FirstName string
	Email     string
	UDF       [UDFCount]string
}

func (t *Transaction) Succeeded() bool {
	return t.Status == StatusSuccess
}

func (t *Transaction) Reference() string {
	return t.UDF[0]
}

type Client interface {
	PaymentForm(req PaymentRequest) (*Form, error)
	VerifyPayment(ctx context.Context, txnID string) (*Transaction, error)
}

type payuClient struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config, httpClient *http.Client) Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if cfg.VerifyTimeout <= 0 {
		cfg.VerifyTimeout = 10 * time.Second
	}

	return &payuClient{cfg: cfg, httpClient: httpClient}
}

// NewTxnID returns a fresh gateway transaction id.
func NewTxnID() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate transaction id: %w", err)
	}

	return "PAYU_" + hex.EncodeToString(buf), nil
}

func SuccessURL(backendURL, txnID string) string {
	return strings.TrimRight(backendURL, "/") + "/api/v1/payments/payu/success/" + url.PathEscape(txnID)
}

func FailureURL(backendURL, txnID string) string {
	return strings.TrimRight(backendURL, "/") + "/api/v1/payments/payu/failure/" + url.PathEscape(txnID)
}

func (c *payuClient) PaymentForm(req PaymentRequest) (*Form, error) {
	if req.TxnID == "" {
		return nil, errors.New("transaction id is required")
	}

	if req.Amount <= 0 {
		return nil, fmt.Errorf("invalid amount %s", FormatAmount(req.Amount))
	}

	fields := []Field{
		{"key", c.cfg.Key},
		{"txnid", req.TxnID},
		{"amount", FormatAmount(req.Amount)},
		{"productinfo", req.ProductInfo},
		{"firstname", req.FirstName},
		{"email", req.Email},
		{"phone", req.Phone},
		{"surl", SuccessURL(c.cfg.BackendURL, req.TxnID)},
		{"furl", FailureURL(c.cfg.BackendURL, req.TxnID)},
	}

	for i, udf := range req.UDF {
		fields = append(fields, Field{fmt.Sprintf("udf%d", i+1), udf})
	}

	fields = append(fields, Field{"hash", Hash(c.cfg.Key, c.cfg.Salt, req)})

	return &Form{Action: c.cfg.PaymentURL, Fields: fields}, nil
}

type verifyResponse struct {
	Msg                string                       `json:"msg"`
	TransactionDetails map[string]transactionDetail `json:"transaction_details"`
}

type transactionDetail struct {
	MihPayID  flexString `json:"mihpayid"`
	Status    string     `json:"status"`
	Mode      string     `json:"mode"`
	TxnID     string     `json:"txnid"`
	Amount    flexString `json:"amt"`
	FirstName string     `json:"firstname"`
	Email     string     `json:"email"`
	UDF1      string     `json:"udf1"`
	UDF2      string     `json:"udf2"`
	UDF3      string     `json:"udf3"`
	UDF4      string     `json:"udf4"`
	UDF5      string     `json:"udf5"`
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*f = flexString(s)

		return nil
	}

	*f = flexString(strings.TrimSpace(string(data)))

	return nil
}

func (c *payuClient) VerifyPayment(ctx context.Context, txnID string) (*Transaction, error) {
	if txnID == "" {
		return nil, ErrTransactionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.VerifyTimeout)
	defer cancel()

	form := url.Values{}
	form.Set("key", c.cfg.Key)
	form.Set("command", verifyCommand)
	form.Set("var1", txnID)
	form.Set("hash", commandHash(c.cfg.Key, verifyCommand, txnID, c.cfg.Salt))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build verify request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("verify request failed, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read verify response: %w", err)
	}

	var decoded verifyResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode verify response: %w", err)
	}

	detail, ok := decoded.TransactionDetails[txnID]
	if !ok || strings.EqualFold(detail.Status, statusNotFound) {
		return nil, ErrTransactionNotFound
	}

	txn := &Transaction{
		TxnID:     txnID,
		PaymentID: string(detail.MihPayID),
		Status:    strings.ToLower(strings.TrimSpace(detail.Status)),
		Mode:      detail.Mode,
		Amount:    string(detail.Amount),
		FirstName: detail.FirstName,
		Email:     detail.Email,
		UDF:       [UDFCount]string{detail.UDF1, detail.UDF2, detail.UDF3, detail.UDF4, detail.UDF5},
	}

	return txn, nil
}

var formTemplate = template.Must(template.New("payu").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Redirecting to payment</title></head>
<body>
<form id="payu" method="post" action="{{.Form.Action}}">
{{- range .Form.Fields}}
<input type="hidden" name="{{.Name}}" value="{{.Value}}">
{{- end}}
<noscript><button type="submit">Continue to payment</button></noscript>
</form>
<script nonce="{{.Nonce}}">document.getElementById("payu").submit();</script>
</body>
</html>
`))

// RenderForm writes a page that posts form to the gateway as soon as it loads.
func RenderForm(w io.Writer, form *Form, nonce string) error {
	return formTemplate.Execute(w, struct {
		Form  *Form
		Nonce string
	}{form, nonce})
}
