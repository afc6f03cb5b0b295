package portal

// TokenValidator validates tokens and extracts claims without tying
// callers to a specific signing implementation.
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// TokenValidatorFunc adapts a function into a TokenValidator.
type TokenValidatorFunc func(tokenString string) (AuthClaims, error)

// Validate satisfies the TokenValidator interface.
func (f TokenValidatorFunc) Validate(tokenString string) (AuthClaims, error) {
	if f == nil {
		return nil, ErrTokenMalformed
	}
	return f(tokenString)
}

// MultiTokenValidator tries validators in order until one succeeds,
// which is how more than one verification key can be live at once
// (e.g. while a new signing key is rolled out). It treats malformed
// errors as "try next" and returns the last malformed error if all
// validators fail.
type MultiTokenValidator struct {
	validators []TokenValidator
}

// NewMultiTokenValidator filters nil validators and returns a composite validator.
func NewMultiTokenValidator(validators ...TokenValidator) *MultiTokenValidator {
	filtered := make([]TokenValidator, 0, len(validators))
	for _, v := range validators {
		if v != nil {
			filtered = append(filtered, v)
		}
	}
	return &MultiTokenValidator{validators: filtered}
}

// Validate satisfies the TokenValidator interface.
func (m *MultiTokenValidator) Validate(tokenString string) (AuthClaims, error) {
	var lastErr error
	for _, v := range m.validators {
		claims, err := v.Validate(tokenString)
		if err == nil {
			return claims, nil
		}
		if IsMalformedError(err) {
			lastErr = err
			continue
		}
		return nil, err
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrTokenMalformed
}

// VerificationValidator builds a TokenValidator that accepts tokens
// signed with any of the given keys. The first key is the one new
// tokens are minted with; the rest exist for verification only.
func VerificationValidator(keys [][]byte, tokenExpiration int, issuer string, audience []string, logger Logger) TokenValidator {
	validators := make([]TokenValidator, 0, len(keys))
	for _, key := range keys {
		validators = append(validators, NewTokenService(key, tokenExpiration, issuer, audience, logger))
	}
	return NewMultiTokenValidator(validators...)
}
