// Package client talks to the backend sync API. Every failure surfaces as an
// apperror.TransportError so the services can degrade to local data instead of
// aborting the sale.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/controllermansear-arch/vendorMan/internal/apperror"
	"github.com/controllermansear-arch/vendorMan/internal/model"
)

// SyncResponse is the backend's answer to a comanda push.
type SyncResponse struct {
	Message             string `json:"message"`
	ComandasProcessadas int    `json:"comandasProcessadas"`
	ComandasInvalidas   int    `json:"comandasInvalidas"`
}

// Saude is the backend health report.
type Saude struct {
	Status   string  `json:"status"`
	Database string  `json:"database"`
	Uptime   float64 `json:"uptime"`
}

// Client is the HTTP client for the sync backend. Data calls and health
// probes carry independent timeouts; all calls pass through a circuit breaker
// so a dead uplink fast-fails instead of stalling every sale behind a timeout.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	healthClient *http.Client
	breaker      *CircuitBreaker
}

// New builds a Client. dataTimeout bounds catalog and comanda calls,
// healthTimeout bounds the health probe.
func New(baseURL string, dataTimeout, healthTimeout time.Duration) *Client {
	if dataTimeout <= 0 {
		dataTimeout = 15 * time.Second
	}
	if healthTimeout <= 0 {
		healthTimeout = 5 * time.Second
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: dataTimeout},
		healthClient: &http.Client{Timeout: healthTimeout},
		breaker:      NewCircuitBreaker(DefaultCBConfig()),
	}
}

// EstadoCircuito exposes the breaker state for diagnostics.
func (c *Client) EstadoCircuito() string { return c.breaker.State().String() }

// BuscarCatalogo fetches the full catalog (produtos, combos e fracionados).
func (c *Client) BuscarCatalogo(ctx context.Context) (model.Catalogo, error) {
	var cat model.Catalogo
	err := c.do(ctx, c.httpClient, http.MethodGet, "/products", nil, &cat)
	if err != nil {
		return model.Catalogo{}, err
	}
	return cat, nil
}

// EnviarComandas pushes closed comandas as a bulk idempotent upsert.
func (c *Client) EnviarComandas(ctx context.Context, comandas []model.Comanda) (*SyncResponse, error) {
	payload := struct {
		Comandas []model.Comanda `json:"comandas"`
	}{Comandas: comandas}

	var result SyncResponse
	if err := c.do(ctx, c.httpClient, http.MethodPost, "/sync", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FecharComanda closes a comanda directly on the backend.
func (c *Client) FecharComanda(ctx context.Context, id uuid.UUID, formaPagamento, usuario string) (*model.Comanda, error) {
	payload := struct {
		FormaPagamento string `json:"formaPagamento"`
		Usuario        string `json:"usuario"`
	}{FormaPagamento: formaPagamento, Usuario: usuario}

	var comanda model.Comanda
	path := fmt.Sprintf("/comandas/%s/fechar", id)
	if err := c.do(ctx, c.httpClient, http.MethodPut, path, payload, &comanda); err != nil {
		return nil, err
	}
	return &comanda, nil
}

// VerificarSaude probes the backend health endpoint with the short timeout.
func (c *Client) VerificarSaude(ctx context.Context) (*Saude, error) {
	var saude Saude
	if err := c.do(ctx, c.healthClient, http.MethodGet, "/health", nil, &saude); err != nil {
		return nil, err
	}
	return &saude, nil
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, in, out interface{}) error {
	op := fmt.Sprintf("%s %s", method, path)

	return c.breaker.Execute(func() error {
		var body *bytes.Reader
		if in != nil {
			raw, err := json.Marshal(in)
			if err != nil {
				return fmt.Errorf("%s: marshal: %w", op, err)
			}
			body = bytes.NewReader(raw)
		} else {
			body = bytes.NewReader(nil)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return fmt.Errorf("%s: create request: %w", op, err)
		}
		if in != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := hc.Do(req)
		if err != nil {
			return &apperror.TransportError{Op: op, Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return &apperror.TransportError{Op: op, Err: fmt.Errorf("status %d", resp.StatusCode)}
		}
		if resp.StatusCode >= http.StatusBadRequest {
			var apiErr struct {
				Error string `json:"error"`
			}
			_ = json.NewDecoder(resp.Body).Decode(&apiErr)
			if apiErr.Error == "" {
				apiErr.Error = fmt.Sprintf("status %d", resp.StatusCode)
			}
			return fmt.Errorf("%s: %s", op, apiErr.Error)
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return &apperror.TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
			}
		}
		return nil
	})
}
