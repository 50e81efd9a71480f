package payu

import (
	"crypto/sha512"
	"encoding/hex"
	"strconv"
	"strings"
)

// UDFCount is the number of user-defined fields carried in the request hash.
const UDFCount = 5

// reservedUDFs are udf6..udf10. They are never sent but keep their positions in the hash.
const reservedUDFs = 5

// Hash signs a payment request as
// sha512(key|txnid|amount|productinfo|firstname|email|udf1|...|udf5||||||salt).
func Hash(key, salt string, req PaymentRequest) string {
	fields := make([]string, 0, 7+UDFCount+reservedUDFs)
	fields = append(fields, key, req.TxnID, FormatAmount(req.Amount), req.ProductInfo, req.FirstName, req.Email)
	fields = append(fields, req.UDF[:]...)

	for range reservedUDFs {
		fields = append(fields, "")
	}

	fields = append(fields, salt)

	return sha512Hex(strings.Join(fields, "|"))
}

func commandHash(key, command, var1, salt string) string {
	return sha512Hex(strings.Join([]string{key, command, var1, salt}, "|"))
}

func sha512Hex(s string) string {
	sum := sha512.Sum512([]byte(s))

	return hex.EncodeToString(sum[:])
}

// FormatAmount renders an amount the way the gateway expects it, with two decimals.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
