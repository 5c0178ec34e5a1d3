package taskforge

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenExpiration is the fixed validity window of an access token.
const TokenExpiration = 30 * time.Minute

// TokenService issues and verifies the bearer tokens used by the API.
type TokenService interface {
	Issue(claims map[string]any) (string, error)
	Generate(subject string) (string, error)
	Validate(tokenString string) (*AccessClaims, error)
}

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey      []byte
	tokenExpiration time.Duration
	issuer          string
	logger          Logger
}

// NewTokenService creates a new TokenService instance. A zero
// expiration falls back to TokenExpiration.
func NewTokenService(signingKey []byte, tokenExpiration time.Duration, issuer string, logger Logger) TokenService {
	if logger == nil {
		logger = defLogger{}
	}
	if tokenExpiration <= 0 {
		tokenExpiration = TokenExpiration
	}
	return &TokenServiceImpl{
		signingKey:      signingKey,
		tokenExpiration: tokenExpiration,
		issuer:          issuer,
		logger:          logger,
	}
}

// Issue signs an arbitrary claim set, stamping the expiry on top of
// whatever the caller provides. The claim set must not be empty.
func (ts *TokenServiceImpl) Issue(claims map[string]any) (string, error) {
	if len(claims) == 0 {
		return "", ErrInvalidClaims
	}

	now := time.Now().UTC()

	payload := jwt.MapClaims{}
	for k, v := range claims {
		payload[k] = v
	}
	payload["exp"] = jwt.NewNumericDate(now.Add(ts.tokenExpiration))
	if ts.issuer != "" {
		payload["iss"] = ts.issuer
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Generate issues a token whose subject claim identifies a principal.
func (ts *TokenServiceImpl) Generate(subject string) (string, error) {
	now := time.Now().UTC()
	claims := &AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.tokenExpiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and checks a token string. Every failure mode, bad
// signature, malformed structure, or a passed expiry, collapses into
// ErrCouldNotValidate so callers cannot distinguish them.
func (ts *TokenServiceImpl) Validate(tokenString string) (*AccessClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 1)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		ts.logger.Debug("TokenService validate rejected token", "error", err)
		return nil, ErrCouldNotValidate
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService validate could not decode claims")
		return nil, ErrCouldNotValidate
	}

	return claims, nil
}
