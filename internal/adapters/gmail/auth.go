package gmail

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
)

// scopes covers read-only inbox access
var scopes = []string{gmailapi.GmailReadonlyScope}

// loadCredentials loads the OAuth client config from a credentials file
func loadCredentials(credPath string) (*oauth2.Config, error) {
	data, err := os.ReadFile(credPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file %s: %w", credPath, err)
	}

	cfg, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	return cfg, nil
}

// loadToken loads a previously saved OAuth token
func loadToken(tokenPath string) (*oauth2.Token, error) {
	data, err := os.ReadFile(tokenPath)
	if err != nil {
		return nil, err
	}

	token := &oauth2.Token{}
	if err := json.Unmarshal(data, token); err != nil {
		return nil, fmt.Errorf("failed to parse token file %s: %w", tokenPath, err)
	}
	return token, nil
}

// httpClient builds an authenticated HTTP client from the stored token.
// Token acquisition (the browser consent flow) is handled outside this
// service; only a refreshable token file is expected here.
func httpClient(ctx context.Context, credPath, tokenPath string) (*http.Client, error) {
	cfg, err := loadCredentials(credPath)
	if err != nil {
		return nil, err
	}

	token, err := loadToken(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("no usable OAuth token (run the authorization flow first): %w", err)
	}

	return cfg.Client(ctx, token), nil
}
