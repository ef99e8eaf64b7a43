package phorest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// expirySkew запас до истечения токена, при котором он считается устаревшим
// Защищает от использования токена, истекающего прямо во время запроса
const expirySkew = 30 * time.Second

// Credential полученный от issuer токен доступа с моментом истечения
type Credential struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Expired проверяет, истёк ли токен (с учётом запаса)
func (c *Credential) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt.Add(-expirySkew))
}

// TokenSource кеш учётных данных OAuth с ключом по issuer
// Проверка истечения и обновление токена явные: никакого глобального
// состояния "последний токен" - каждый вызов Token проверяет срок действия
// и при необходимости запрашивает новый токен у issuer
type TokenSource struct {
	mu           sync.Mutex
	clientID     string
	clientSecret string
	httpClient   *http.Client
	log          Logger

	// Кеш по URL issuer - сервис работает с одним issuer,
	// но кеш явный и расширяемый
	cache map[string]*Credential
}

// NewTokenSource создает новый источник токенов
func NewTokenSource(clientID, clientSecret string, timeout time.Duration, log Logger) *TokenSource {
	return &TokenSource{
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log:   log,
		cache: make(map[string]*Credential),
	}
}

// tokenResponse ответ issuer на запрос токена
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Token возвращает действующий токен для issuer, при необходимости обновляя его
func (ts *TokenSource) Token(ctx context.Context, issuerURL string) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	now := time.Now()

	if cred, ok := ts.cache[issuerURL]; ok && !cred.Expired(now) {
		return cred.AccessToken, nil
	}

	cred, err := ts.refresh(ctx, issuerURL)
	if err != nil {
		return "", err
	}

	ts.cache[issuerURL] = cred
	ts.log.Info("Phorest token refreshed, expires at %s", cred.ExpiresAt.Format(time.RFC3339))

	return cred.AccessToken, nil
}

// Invalidate сбрасывает кешированный токен issuer
// Вызывается после ответа 401, чтобы следующий запрос получил новый токен
func (ts *TokenSource) Invalidate(issuerURL string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	delete(ts.cache, issuerURL)
}

// refresh запрашивает новый токен у issuer (client_credentials grant)
func (ts *TokenSource) refresh(ctx context.Context, issuerURL string) (*Credential, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", ts.clientID)
	form.Set("client_secret", ts.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, issuerURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create token request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute token request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: token endpoint returned status %d", ErrUnauthorized, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("%w: failed to decode token response: %v", ErrInvalidResponse, err)
	}

	if tr.AccessToken == "" || tr.ExpiresIn <= 0 {
		return nil, fmt.Errorf("%w: token response is missing access_token or expires_in", ErrInvalidResponse)
	}

	return &Credential{
		AccessToken: tr.AccessToken,
		ExpiresAt:   time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second),
	}, nil
}
