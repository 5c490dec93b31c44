// Package auth builds Authorization header values for outgoing requests. Credentials
// passed through these helpers are applied to the executed request only and are never
// written to a saved configuration.
package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ErrMissingCredentials is returned when a required credential is empty.
var ErrMissingCredentials = errors.New("missing credentials")

// Basic creates HTTP Basic authentication headers.
type Basic struct {
	Username string
	Password string
}

// ParseBasic splits a "user:password" pair. The password may contain colons.
func ParseBasic(s string) (Basic, error) {
	user, pass, ok := strings.Cut(s, ":")
	if !ok || user == "" {
		return Basic{}, fmt.Errorf("%w: expected USER:PASSWORD", ErrMissingCredentials)
	}
	return Basic{Username: user, Password: pass}, nil
}

// Authorization returns "Basic <base64(user:password)>".
func (b Basic) Authorization(context.Context) (string, error) {
	if b.Username == "" {
		return "", fmt.Errorf("%w: username is required", ErrMissingCredentials)
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(b.Username + ":" + b.Password))
	return "Basic " + encoded, nil
}

// Bearer sends a fixed token.
type Bearer struct {
	Token string
}

// Authorization returns "Bearer <token>".
func (b Bearer) Authorization(context.Context) (string, error) {
	if b.Token == "" {
		return "", fmt.Errorf("%w: token is required", ErrMissingCredentials)
	}
	return "Bearer " + b.Token, nil
}

// OAuth2 flows supported without a browser.
const (
	FlowClientCredentials = "client_credentials"
	FlowPassword          = "password"
)

// OAuth2 obtains an access token from TokenURL before each request.
type OAuth2 struct {
	Flow         string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
	// Username and Password are used by the password flow only.
	Username     string
	Password     string
}

// Authorization performs the configured flow and returns "<type> <access token>".
func (o OAuth2) Authorization(ctx context.Context) (string, error) {
	if o.TokenURL == "" {
		return "", fmt.Errorf("%w: token URL is required", ErrMissingCredentials)
	}
	if o.ClientID == "" {
		return "", fmt.Errorf("%w: client ID is required", ErrMissingCredentials)
	}

	var (
		token *oauth2.Token
		err   error
	)
	switch o.Flow {
	case "", FlowClientCredentials:
		config := clientcredentials.Config{
			ClientID:     o.ClientID,
			ClientSecret: o.ClientSecret,
			TokenURL:     o.TokenURL,
			Scopes:       o.Scopes,
		}
		token, err = config.Token(ctx)
	case FlowPassword:
		if o.Username == "" {
			return "", fmt.Errorf("%w: username is required for the password flow", ErrMissingCredentials)
		}
		config := oauth2.Config{
			ClientID:     o.ClientID,
			ClientSecret: o.ClientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: o.TokenURL},
			Scopes:       o.Scopes,
		}
		token, err = config.PasswordCredentialsToken(ctx, o.Username, o.Password)
	default:
		return "", fmt.Errorf("unknown OAuth2 flow %q (supported: %s, %s)", o.Flow, FlowClientCredentials, FlowPassword)
	}
	if err != nil {
		return "", fmt.Errorf("OAuth2 %s flow failed: %w", o.flowName(), err)
	}
	return token.Type() + " " + token.AccessToken, nil
}

func (o OAuth2) flowName() string {
	if o.Flow == "" {
		return FlowClientCredentials
	}
	return o.Flow
}
