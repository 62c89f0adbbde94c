package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"

	"github.com/prathamesh1010/Paras-Wires/internal/domain"
)

// Scopes requested for the datasheet folder. Access is read-only.
var Scopes = []string{
	"https://www.googleapis.com/auth/drive.readonly",
	"https://www.googleapis.com/auth/spreadsheets.readonly",
	"https://www.googleapis.com/auth/documents.readonly",
}

// DefaultRefreshSkew is how long before expiry a token is refreshed
const DefaultRefreshSkew = 5 * time.Minute

var errNoRefreshToken = errors.New("token expired and has no refresh token")

// TokenProvider hands out access tokens read from a token file, refreshing
// and saving them back when they are close to expiry.
type TokenProvider struct {
	config    *oauth2.Config
	tokenFile string
	skew      time.Duration
	now       func() time.Time
	logger    *zap.Logger

	mu sync.Mutex
}

// NewTokenProvider reads OAuth client secrets from credentialsFile
func NewTokenProvider(credentialsFile, tokenFile string, skew time.Duration, logger *zap.Logger) (*TokenProvider, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("%w: read credentials file: %v", domain.ErrAuthentication, err)
	}

	cfg, err := googleoauth.ConfigFromJSON(data, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: parse credentials file: %v", domain.ErrAuthentication, err)
	}

	return NewTokenProviderFromConfig(cfg, tokenFile, skew, logger), nil
}

// NewTokenProviderFromConfig creates a provider for an existing OAuth config
func NewTokenProviderFromConfig(cfg *oauth2.Config, tokenFile string, skew time.Duration, logger *zap.Logger) *TokenProvider {
	if skew <= 0 {
		skew = DefaultRefreshSkew
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenProvider{
		config:    cfg,
		tokenFile: tokenFile,
		skew:      skew,
		now:       time.Now,
		logger:    logger.Named("auth"),
	}
}

// Acquire returns a credential valid for at least the refresh skew
func (p *TokenProvider) Acquire(ctx context.Context) (*domain.Credential, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	token, err := p.loadToken()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAuthentication, err)
	}

	if p.needsRefresh(token) {
		p.logger.Info("refreshing access token", zap.Time("expiry", token.Expiry))

		refreshed, err := p.refresh(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrAuthentication, err)
		}
		if err := p.saveToken(refreshed); err != nil {
			p.logger.Warn("failed to save refreshed token", zap.String("path", p.tokenFile), zap.Error(err))
		}
		token = refreshed
	}

	return &domain.Credential{
		AccessToken: token.AccessToken,
		TokenType:   token.Type(),
		Expiry:      token.Expiry,
	}, nil
}

func (p *TokenProvider) needsRefresh(token *oauth2.Token) bool {
	if token.AccessToken == "" {
		return true
	}
	if token.Expiry.IsZero() {
		return false
	}
	return !p.now().Add(p.skew).Before(token.Expiry)
}

func (p *TokenProvider) refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error) {
	if token.RefreshToken == "" {
		return nil, errNoRefreshToken
	}

	// An empty access token makes the token source go to the token endpoint.
	stale := &oauth2.Token{RefreshToken: token.RefreshToken}
	refreshed, err := p.config.TokenSource(ctx, stale).Token()
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = token.RefreshToken
	}
	return refreshed, nil
}

func (p *TokenProvider) loadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(p.tokenFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("token file %s not found, run datasheetctl auth", p.tokenFile)
		}
		return nil, fmt.Errorf("read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("parse token file: %w", err)
	}
	return &token, nil
}

func (p *TokenProvider) saveToken(token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(p.tokenFile); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(p.tokenFile, data, 0o600)
}

// AuthCodeURL returns the consent page URL for the installed-app flow
func (p *TokenProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades an authorization code for a token and saves it to the token file
func (p *TokenProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: exchange code: %v", domain.ErrAuthentication, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.saveToken(token); err != nil {
		return nil, fmt.Errorf("save token: %w", err)
	}

	p.logger.Info("saved new token", zap.String("path", p.tokenFile))
	return token, nil
}
