package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"flightsearch-service/pkg/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// TokenPath is the Amadeus client-credentials token endpoint
const TokenPath = "/v1/security/oauth2/token"

// AmadeusOAuth handles client-credentials authentication with Amadeus
type AmadeusOAuth struct {
	config *clientcredentials.Config
	logger logger.Logger
}

// NewAmadeusOAuth creates a new Amadeus OAuth handler
func NewAmadeusOAuth(clientID, clientSecret, baseURL string, logger logger.Logger) *AmadeusOAuth {
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     strings.TrimRight(baseURL, "/") + TokenPath,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	return &AmadeusOAuth{
		config: config,
		logger: logger,
	}
}

// GetTokenSource returns a caching token source that refreshes on expiry
func (o *AmadeusOAuth) GetTokenSource(ctx context.Context) oauth2.TokenSource {
	return o.config.TokenSource(ctx)
}

// HTTPClient returns a client that authorizes every request with a bearer token
func (o *AmadeusOAuth) HTTPClient(ctx context.Context, timeout time.Duration) *http.Client {
	client := oauth2.NewClient(ctx, o.GetTokenSource(ctx))
	client.Timeout = timeout
	return client
}

// FetchToken requests a fresh access token
func (o *AmadeusOAuth) FetchToken(ctx context.Context) (*oauth2.Token, error) {
	token, err := o.config.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch token: %w", err)
	}

	o.logger.Info("Access token obtained", "expiry", token.Expiry)
	return token, nil
}

// TokenToJSON converts a token to JSON
func (o *AmadeusOAuth) TokenToJSON(token *oauth2.Token) (string, error) {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
