package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/gateway"
	"app/internal/logger"
)

// Client は gateway.Backend のJSON/HTTP実装。
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient はクライアントを作る。baseURL は正規化済みを渡す。
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type searchProductRequest struct {
	Code string `json:"code"`
}

type searchProductResponse struct {
	Product *model.Product `json:"product"`
}

// SearchProduct は POST /search_product。
// 該当商品が無いときは (nil, nil)。
func (c *Client) SearchProduct(ctx context.Context, code string) (*model.Product, error) {
	var resp searchProductResponse
	if err := c.postJSON(ctx, "/search_product", searchProductRequest{Code: code}, &resp); err != nil {
		return nil, err
	}
	return resp.Product, nil
}

// Purchase は POST /purchase。
// HTTPとしては成功しても success=false はあり得る（呼び出し側で判断）。
func (c *Client) Purchase(ctx context.Context, req model.PurchaseRequest) (model.PurchaseResult, error) {
	var result model.PurchaseResult
	if err := c.postJSON(ctx, "/purchase", req, &result); err != nil {
		return model.PurchaseResult{}, err
	}
	return result, nil
}

// Health は GET /。診断用。
func (c *Client) Health(ctx context.Context) (gateway.HealthStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return gateway.HealthStatus{}, err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return gateway.HealthStatus{}, fmt.Errorf("%w: %v", gateway.ErrBackend, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return gateway.HealthStatus{}, failureFromResponse(resp)
	}

	var st gateway.HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return gateway.HealthStatus{}, fmt.Errorf("%w: decode: %v", gateway.ErrBackend, err)
	}
	return st, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		logger.Warn().Str("path", path).Err(err).Msg("backend request failed")
		return fmt.Errorf("%w: %v", gateway.ErrBackend, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := failureFromResponse(resp)
		logger.Warn().Str("path", path).Int("status", resp.StatusCode).Err(err).Msg("backend returned error")
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", gateway.ErrBackend, err)
	}
	return nil
}

// 非2xx：サーバーのdetailがあればそれを、無ければステータス文言を載せる。
func failureFromResponse(resp *http.Response) error {
	var detail struct {
		Detail string `json:"detail"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(raw, &detail) == nil && detail.Detail != "" {
		return fmt.Errorf("%w: %s", gateway.ErrBackend, detail.Detail)
	}
	return fmt.Errorf("%w: %s", gateway.ErrBackend, http.StatusText(resp.StatusCode))
}
