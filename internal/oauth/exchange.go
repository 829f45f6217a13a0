package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/doyensec/safeurl"
)

// maxTokenResponseBytes acota el cuerpo que aceptamos del token endpoint.
const maxTokenResponseBytes = 1 << 20

// TokenResponse es la respuesta del token endpoint del proveedor.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	IDToken      string `json:"id_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// NewHTTPClient crea el cliente HTTP para hablar con los proveedores. Va
// detrás de safeurl: los endpoints vienen de configuración del operador,
// pero un ENDPOINT_TOKEN apuntando a la red interna no debe poder usarse
// como proxy SSRF.
func NewHTTPClient(timeout time.Duration) *http.Client {
	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()
	return safeurl.Client(config).Client
}

// ExchangeCode canjea el authorization code por tokens contra el token
// endpoint del proveedor. El body va como form, que es lo que exige la RFC;
// varios proveedores además rechazan el canje con los parámetros en la URL.
func ExchangeCode(ctx context.Context, client *http.Client, cfg *Config, code string) (*TokenResponse, error) {
	secret, err := cfg.ClientSecret()
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", cfg.Value(SettingEndpointRedirect))
	form.Set("client_id", cfg.Value(SettingClientID))
	form.Set("client_secret", secret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		cfg.Value(SettingEndpointToken), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oauth: token request to %s: %w", cfg.Provider(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("oauth: read token response from %s: %w", cfg.Provider(), err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("oauth: token endpoint of %s returned %d: %s",
			cfg.Provider(), resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tr TokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("oauth: decode token response from %s: %w", cfg.Provider(), err)
	}
	return &tr, nil
}
