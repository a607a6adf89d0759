// Package token reads identity claims out of backend-issued access tokens.
//
// The gateway does not hold the backend signing key, so tokens are parsed
// without signature verification. The backend remains the authority and
// rejects forged tokens when the review is submitted.
package token

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"go-review-gateway/internal/model"
)

var (
	ErrMalformedToken     = errors.New("token does not have three segments")
	ErrUndecodablePayload = errors.New("token payload could not be decoded")
	ErrMissingUserID      = errors.New("token payload has no user_id")
)

type accessClaims struct {
	UserID   any `json:"user_id"`
	Username any `json:"username"`
}

var parser = jwt.NewParser(jwt.WithPaddingAllowed())

// Decode extracts the identity claim from raw. Only the payload segment is
// read; the header and signature are left to the backend. The returned error
// is always one of ErrMalformedToken, ErrUndecodablePayload or
// ErrMissingUserID (possibly wrapped).
func Decode(raw string) (claim model.IdentityClaim, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			claim = model.IdentityClaim{}
			err = fmt.Errorf("%w: %v", ErrUndecodablePayload, recovered)
		}
	}()

	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return model.IdentityClaim{}, ErrMalformedToken
	}

	payload, decodeErr := parser.DecodeSegment(parts[1])
	if decodeErr != nil {
		return model.IdentityClaim{}, fmt.Errorf("%w: %v", ErrUndecodablePayload, decodeErr)
	}

	claims := &accessClaims{}
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()
	if decodeErr := decoder.Decode(claims); decodeErr != nil {
		return model.IdentityClaim{}, fmt.Errorf("%w: %v", ErrUndecodablePayload, decodeErr)
	}

	if !present(claims.UserID) {
		return model.IdentityClaim{}, ErrMissingUserID
	}

	return model.IdentityClaim{
		UserID:   claims.UserID,
		Username: stringClaim(claims.Username),
	}, nil
}

// present treats null, false, zero and the empty string as absent.
func present(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case bool:
		return value
	case string:
		return value != ""
	case json.Number:
		f, err := value.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}

func stringClaim(v any) string {
	if !present(v) {
		return ""
	}
	switch value := v.(type) {
	case string:
		return value
	case json.Number:
		return value.String()
	default:
		return ""
	}
}
