package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
)

// GmailClient builds an HTTP client allowed to send mail as the authorised account.
// The OAuth token must already exist on disk; run the consent flow once with
// `jobctl gmail-token` to create it.
func GmailClient(ctx context.Context, credentialsFile, tokenFile string) (*http.Client, error) {
	config, err := gmailConfig(credentialsFile)
	if err != nil {
		return nil, err
	}
	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("read gmail token %s: %w", tokenFile, err)
	}
	return config.Client(ctx, tok), nil
}

func gmailConfig(credentialsFile string) (*oauth2.Config, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read gmail credentials %s: %w", credentialsFile, err)
	}
	config, err := google.ConfigFromJSON(b, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("parse gmail credentials: %w", err)
	}
	return config, nil
}

// GmailAuthURL is the consent page the operator opens to authorise sending.
func GmailAuthURL(credentialsFile string) (string, error) {
	config, err := gmailConfig(credentialsFile)
	if err != nil {
		return "", err
	}
	return config.AuthCodeURL("state-token", oauth2.AccessTypeOffline), nil
}

// ExchangeGmailCode trades the consent code for a token and stores it.
func ExchangeGmailCode(ctx context.Context, credentialsFile, tokenFile, code string) error {
	config, err := gmailConfig(credentialsFile)
	if err != nil {
		return err
	}
	tok, err := config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange gmail code: %w", err)
	}
	return saveToken(tokenFile, tok)
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("cache gmail token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}
