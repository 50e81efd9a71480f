package payu_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/storefront-checkout/pkg/payu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(verifyURL string) payu.Config {
	return payu.Config{
		Key:           "key",
		Salt:          "salt",
		PaymentURL:    "https://test.payu.in/_payment",
		VerifyURL:     verifyURL,
		BackendURL:    "https://api.example.com/",
		VerifyTimeout: time.Second,
	}
}

func TestPaymentForm(t *testing.T) {
	client := payu.NewClient(testConfig(""), nil)

	t.Run("Signed ordered fields", func(t *testing.T) {
		// Arrange
		req := payu.PaymentRequest{
			TxnID:       "PAYU_abc",
			Amount:      250,
			ProductInfo: "Storefront order",
			FirstName:   "Asha",
			Email:       "asha@example.com",
			Phone:       "9999999999",
			UDF:         [payu.UDFCount]string{"ref", "9999999999", "Asha"},
		}

		// Act
		form, err := client.PaymentForm(req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "https://test.payu.in/_payment", form.Action)
		assert.Equal(t, "250.00", form.Get("amount"))
		assert.Equal(t, "ref", form.Get("udf1"))
		assert.Equal(t, "", form.Get("udf4"))
		assert.Equal(t, "https://api.example.com/api/v1/payments/payu/success/PAYU_abc", form.Get("surl"))
		assert.Equal(t, "https://api.example.com/api/v1/payments/payu/failure/PAYU_abc", form.Get("furl"))
		assert.Equal(t, payu.Hash("key", "salt", req), form.Get("hash"))
		assert.Equal(t, "hash", form.Fields[len(form.Fields)-1].Name)
	})

	t.Run("Rejects zero amount", func(t *testing.T) {
		_, err := client.PaymentForm(payu.PaymentRequest{TxnID: "PAYU_abc"})

		assert.Error(t, err)
	})
}

func TestRenderForm(t *testing.T) {
	form := &payu.Form{
		Action: "https://test.payu.in/_payment",
		Fields: []payu.Field{{Name: "firstname", Value: `"><script>`}, {Name: "hash", Value: "abc"}},
	}

	var buf bytes.Buffer
	require.NoError(t, payu.RenderForm(&buf, form, "n0nce"))

	page := buf.String()
	assert.Contains(t, page, `action="https://test.payu.in/_payment"`)
	assert.Contains(t, page, `<script nonce="n0nce">`)
	assert.Contains(t, page, `name="hash" value="abc"`)
	assert.NotContains(t, page, `"><script>`)
}

func TestVerifyPayment(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		delay       time.Duration
		expectErr   bool
		notFound    bool
		succeeded   bool
		expectedRef string
	}{
		{
			name:        "Success",
			status:      http.StatusOK,
			body:        `{"status":1,"msg":"1 out of 1 Transactions Fetched Successfully","transaction_details":{"PAYU_1":{"mihpayid":403993715521,"status":"success","mode":"UPI","txnid":"PAYU_1","amt":"250.00","udf1":"ref","udf2":"9999999999","udf3":"Asha","firstname":"Asha","email":"asha@example.com"}}}`,
			succeeded:   true,
			expectedRef: "ref",
		},
		{
			name:   "Failed payment",
			status: http.StatusOK,
			body:   `{"status":1,"transaction_details":{"PAYU_1":{"mihpayid":"403993715522","status":"failure","mode":"CC","txnid":"PAYU_1","udf1":"ref"}}}`,
		},
		{
			name:     "Not found",
			status:   http.StatusOK,
			body:     `{"status":0,"msg":"0 out of 1 Transactions Fetched Successfully","transaction_details":{"PAYU_1":{"mihpayid":"Not Found","status":"Not Found"}}}`,
			notFound: true,
		},
		{
			name:     "Missing from details",
			status:   http.StatusOK,
			body:     `{"status":0,"transaction_details":{}}`,
			notFound: true,
		},
		{
			name:      "Gateway error status",
			status:    http.StatusBadGateway,
			body:      `oops`,
			expectErr: true,
		},
		{
			name:      "Malformed body",
			status:    http.StatusOK,
			body:      `<html>`,
			expectErr: true,
		},
		{
			name:      "Timeout",
			status:    http.StatusOK,
			body:      `{}`,
			delay:     2 * time.Second,
			expectErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.NoError(t, r.ParseForm())
				assert.Equal(t, "verify_payment", r.PostForm.Get("command"))
				assert.Equal(t, "PAYU_1", r.PostForm.Get("var1"))
				assert.Len(t, r.PostForm.Get("hash"), 128)

				if tc.delay > 0 {
					select {
					case <-time.After(tc.delay):
					case <-r.Context().Done():
					}
				}

				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := payu.NewClient(testConfig(server.URL), server.Client())

			// Act
			txn, err := client.VerifyPayment(t.Context(), "PAYU_1")

			// Assert
			switch {
			case tc.notFound:
				assert.ErrorIs(t, err, payu.ErrTransactionNotFound)
				assert.Nil(t, txn)
			case tc.expectErr:
				require.Error(t, err)
				assert.False(t, strings.Contains(err.Error(), "not found"))
				assert.Nil(t, txn)
			default:
				require.NoError(t, err)
				assert.Equal(t, tc.succeeded, txn.Succeeded())
				assert.Equal(t, "PAYU_1", txn.TxnID)
				if tc.expectedRef != "" {
					assert.Equal(t, tc.expectedRef, txn.Reference())
					assert.Equal(t, "403993715521", txn.PaymentID)
					assert.Equal(t, "UPI", txn.Mode)
				}
			}
		})
	}

	t.Run("Empty txn id", func(t *testing.T) {
		client := payu.NewClient(testConfig("http://127.0.0.1:0"), nil)

		_, err := client.VerifyPayment(t.Context(), "")

		assert.ErrorIs(t, err, payu.ErrTransactionNotFound)
	})
}

func TestNewTxnID(t *testing.T) {
	a, err := payu.NewTxnID()
	require.NoError(t, err)
	b, err := payu.NewTxnID()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a, "PAYU_"))
	assert.Len(t, a, len("PAYU_")+16)
	assert.NotEqual(t, a, b)
}
