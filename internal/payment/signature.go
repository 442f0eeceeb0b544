package payment

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"settlement-service/internal/domain"
)

// Signing primitives for the three payment providers. Every verify path
// recomputes the expected signature from the untrusted payload and compares
// it against the claimed one; a "valid" flag from the caller is never
// trusted. Empty required inputs are rejected before hashing so a partial
// payload can never produce a false-positive match against empty strings.

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func requireFields(pairs ...[2]string) error {
	for _, p := range pairs {
		if p[1] == "" {
			return &domain.ValidationError{Field: p[0], Reason: "required for signing"}
		}
	}
	return nil
}

// SignPayProRequest hashes merchantId+orderNumber+amount+secret, upper hex.
func SignPayProRequest(merchantID, orderNumber, amount, secret string) (string, error) {
	if err := requireFields(
		[2]string{"merchantId", merchantID},
		[2]string{"orderNumber", orderNumber},
		[2]string{"amount", amount},
		[2]string{"secret", secret},
	); err != nil {
		return "", err
	}
	return strings.ToUpper(sha256Hex(merchantID + orderNumber + amount + secret)), nil
}

// SignPayProResponse uses a different field order than the request, matching
// the provider's documented asymmetry.
func SignPayProResponse(orderNumber, amount, status, secret string) (string, error) {
	if err := requireFields(
		[2]string{"orderNumber", orderNumber},
		[2]string{"amount", amount},
		[2]string{"status", status},
		[2]string{"secret", secret},
	); err != nil {
		return "", err
	}
	return strings.ToUpper(sha256Hex(orderNumber + amount + status + secret)), nil
}

// SignJazzCash canonicalizes the field set as salt&k1=v1&k2=v2... over
// lexicographically sorted keys, dropping the signature field itself and any
// empty value, then hashes to upper hex. Signing and verification must run
// this exact canonicalization.
func SignJazzCash(fields map[string]string, integritySalt string) (string, error) {
	if integritySalt == "" {
		return "", &domain.ValidationError{Field: "integritySalt", Reason: "required for signing"}
	}
	if len(fields) == 0 {
		return "", &domain.ValidationError{Field: "fields", Reason: "required for signing"}
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "pp_SecureHash" {
			continue
		}
		if fields[k] == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(integritySalt)
	for _, k := range keys {
		b.WriteString("&")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(fields[k])
	}
	return strings.ToUpper(sha256Hex(b.String())), nil
}

// VerifyJazzCash recomputes the hash from the received fields minus the
// received signature and compares case-sensitively.
func VerifyJazzCash(fields map[string]string, integritySalt string) (bool, error) {
	claimed := fields["pp_SecureHash"]
	if claimed == "" {
		return false, &domain.ValidationError{Field: "pp_SecureHash", Reason: "missing"}
	}
	expected, err := SignJazzCash(fields, integritySalt)
	if err != nil {
		return false, err
	}
	return claimed == expected, nil
}

// SignEasyPaisaRequest hashes amount&storeId&orderRef&expiryDate&hashKey.
func SignEasyPaisaRequest(amount, storeID, orderRef, expiryDate, hashKey string) (string, error) {
	if err := requireFields(
		[2]string{"amount", amount},
		[2]string{"storeId", storeID},
		[2]string{"orderRef", orderRef},
		[2]string{"expiryDate", expiryDate},
		[2]string{"hashKey", hashKey},
	); err != nil {
		return "", err
	}
	return sha256Hex(amount + "&" + storeID + "&" + orderRef + "&" + expiryDate + "&" + hashKey), nil
}

// SignEasyPaisaResponse hashes amount&orderRef&responseCode&responseDesc&hashKey.
func SignEasyPaisaResponse(amount, orderRef, responseCode, responseDesc, hashKey string) (string, error) {
	if err := requireFields(
		[2]string{"amount", amount},
		[2]string{"orderRef", orderRef},
		[2]string{"responseCode", responseCode},
		[2]string{"responseDesc", responseDesc},
		[2]string{"hashKey", hashKey},
	); err != nil {
		return "", err
	}
	return sha256Hex(amount + "&" + orderRef + "&" + responseCode + "&" + responseDesc + "&" + hashKey), nil
}
