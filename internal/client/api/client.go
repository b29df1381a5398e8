package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/iudanet/prefkeeper/internal/merge"
	"github.com/iudanet/prefkeeper/pkg/api"
)

//go:generate moq -out client_mock.go . ClientAPI

// ClientAPI определяет операции клиента с хабом синхронизации
type ClientAPI interface {
	// Sync отправляет полное состояние документа и получает состояние хаба после слияния
	Sync(ctx context.Context, document string, msg *merge.SyncMessage) (*merge.SyncMessage, error)

	// Fetch получает текущее состояние документа на хабе
	// Возвращает ErrNotFound, если хаб не знает документ
	Fetch(ctx context.Context, document string) (*merge.SyncMessage, error)

	// Documents возвращает список документов хаба
	Documents(ctx context.Context) ([]api.DocumentInfo, error)

	// Health проверяет доступность хаба
	Health(ctx context.Context) (*api.HealthResponse, error)
}

// Client представляет HTTP клиент для взаимодействия с хабом
type Client struct {
	httpClient    *http.Client
	logger        *slog.Logger
	zstd          *merge.ZstdTransform
	baseURL       string
	maxRetries    uint64
	retryInterval time.Duration
}

var _ ClientAPI = (*Client)(nil)

// Option настраивает Client
type Option func(*Client)

// WithTimeout задает таймаут одного HTTP запроса
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

// WithMaxRetries задает количество повторов при сетевых ошибках и 5xx
func WithMaxRetries(n uint64) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithRetryInterval задает начальный интервал между повторами
func WithRetryInterval(d time.Duration) Option {
	return func(c *Client) { c.retryInterval = d }
}

// WithCompression включает zstd для тел запросов и ответов
func WithCompression(z *merge.ZstdTransform) Option {
	return func(c *Client) { c.zstd = z }
}

// WithLogger задает логгер
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient создает новый API клиент
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		maxRetries:    3,
		retryInterval: 500 * time.Millisecond,
		logger:        slog.Default(),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sync отправляет состояние документа на хаб
func (c *Client) Sync(ctx context.Context, document string, msg *merge.SyncMessage) (*merge.SyncMessage, error) {
	var resp merge.SyncMessage
	if err := c.doRequest(ctx, http.MethodPost, syncPath(document), msg, &resp); err != nil {
		return nil, fmt.Errorf("sync request failed: %w", err)
	}
	return &resp, nil
}

// Fetch получает состояние документа с хаба
func (c *Client) Fetch(ctx context.Context, document string) (*merge.SyncMessage, error) {
	var resp merge.SyncMessage
	if err := c.doRequest(ctx, http.MethodGet, syncPath(document), nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch request failed: %w", err)
	}
	return &resp, nil
}

// Documents получает список документов хаба
func (c *Client) Documents(ctx context.Context) ([]api.DocumentInfo, error) {
	var resp api.DocumentsResponse
	if err := c.doRequest(ctx, http.MethodGet, api.PathDocuments, nil, &resp); err != nil {
		return nil, fmt.Errorf("documents request failed: %w", err)
	}
	return resp.Documents, nil
}

// Health проверяет доступность хаба
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, api.PathHealth, nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

func syncPath(document string) string {
	return strings.Replace(api.PathSync, "{document}", url.PathEscape(document), 1)
}

// doRequest выполняет HTTP запрос с повторами по экспоненциальной задержке.
// Ответы 4xx не повторяются.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		if c.zstd != nil {
			if data, err = c.zstd.Encode(data); err != nil {
				return fmt.Errorf("failed to compress request body: %w", err)
			}
		}
		payload = data
	}

	attempt := 0
	operation := func() error {
		attempt++
		err := c.do(ctx, method, path, payload, result)
		if err == nil {
			return nil
		}

		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return err
		}
		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.Retryable() {
			return backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}

		c.logger.Warn("Request failed",
			"method", method,
			"path", path,
			"attempt", attempt,
			slog.Any("error", err))
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInterval
	return backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx))
}

// do выполняет одну попытку запроса
func (c *Client) do(ctx context.Context, method, path string, payload []byte, result any) error {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}

	if payload != nil {
		req.Header.Set(api.HeaderContentType, api.ContentTypeJSON)
		if c.zstd != nil {
			req.Header.Set(api.HeaderContentEncoding, api.EncodingZstd)
		}
	}
	if c.zstd != nil {
		req.Header.Set(api.HeaderAcceptEncoding, api.EncodingZstd)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.Header.Get(api.HeaderContentEncoding) == api.EncodingZstd {
		if c.zstd == nil {
			return backoff.Permanent(fmt.Errorf("unexpected zstd response"))
		}
		if respBody, err = c.zstd.Decode(respBody); err != nil {
			return err
		}
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, respBody)
	}

	// Декодируем успешный ответ
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
		}
	}

	return nil
}

func statusError(code int, body []byte) error {
	statusErr := &StatusError{StatusCode: code, Message: strings.TrimSpace(string(body))}

	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		statusErr.Message = errResp.Error
		if errResp.Message != "" {
			statusErr.Message += ": " + errResp.Message
		}
	}

	switch {
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, statusErr)
	case !statusErr.Retryable():
		return fmt.Errorf("%w: %w", ErrRejected, statusErr)
	default:
		return statusErr
	}
}
