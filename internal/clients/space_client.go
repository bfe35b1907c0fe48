package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"orbita/internal/apperr"
)

// SpaceClient — клиент всех внешних источников. Каждый метод строит URL
// своего источника и ходит через общий getWithRetry.
type SpaceClient interface {
	GetISS(ctx context.Context) (interface{}, error)
	GetOSDR(ctx context.Context) (interface{}, error)
	GetAPOD(ctx context.Context) (interface{}, error)
	GetNEO(ctx context.Context) (interface{}, error)
	GetDONKIFLR(ctx context.Context) (interface{}, error)
	GetDONKICME(ctx context.Context) (interface{}, error)
	GetSpaceX(ctx context.Context) (interface{}, error)
}

type Config struct {
	ISSURL    string
	OSDRURL   string
	APODURL   string
	NEOURL    string
	DONKIURL  string
	SpaceXURL string
	APIKey    string

	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

type spaceClient struct {
	cfg        Config
	httpClient *http.Client
}

func NewSpaceClient(cfg Config) SpaceClient {
	return &spaceClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
	}
}

// getWithRetry выполняет до MaxRetries+1 попыток с фиксированной паузой
// между ними. Транспортная ошибка запоминается; не-2xx ответ молча
// отбрасывается и попытка повторяется. После исчерпания попыток
// возвращается последняя транспортная ошибка, а если её не было —
// ошибка по последнему неуспешному статусу.
func (c *spaceClient) getWithRetry(ctx context.Context, reqURL string) (interface{}, error) {
	var lastErr error
	lastStatus := 0

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.cfg.RetryDelay):
			case <-ctx.Done():
				return nil, apperr.Wrap(apperr.CodeUpstreamTimeout, "request cancelled", ctx.Err())
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeValidation, "invalid request URL", err)
		}
		req.Header.Set("User-Agent", "orbita/1.0")
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			var data interface{}
			err := json.NewDecoder(resp.Body).Decode(&data)
			resp.Body.Close()
			if err != nil {
				return nil, apperr.Wrap(apperr.CodeDecode, "failed to decode upstream JSON", err)
			}
			return data, nil
		}

		lastStatus = resp.StatusCode
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}

	if lastErr != nil {
		return nil, classifyTransport(lastErr)
	}
	return nil, classifyStatus(lastStatus)
}

func classifyTransport(err error) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return apperr.Wrap(apperr.CodeUpstreamTimeout, "upstream request timed out", err)
	}
	return apperr.Wrap(apperr.CodeUpstream, "upstream request failed", err)
}

func classifyStatus(status int) error {
	switch status {
	case http.StatusForbidden:
		return apperr.New(apperr.CodeUpstreamForbidden, "upstream returned 403")
	case http.StatusNotFound:
		return apperr.New(apperr.CodeUpstreamNotFound, "upstream returned 404")
	default:
		return apperr.New(apperr.CodeUpstreamBadStatus, fmt.Sprintf("upstream returned status %d", status))
	}
}

func (c *spaceClient) buildURL(base string, params url.Values, withKey bool) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeValidation, "invalid upstream URL", err)
	}
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	if withKey && c.cfg.APIKey != "" {
		q.Set("api_key", c.cfg.APIKey)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *spaceClient) GetISS(ctx context.Context) (interface{}, error) {
	return c.getWithRetry(ctx, c.cfg.ISSURL)
}

func (c *spaceClient) GetOSDR(ctx context.Context) (interface{}, error) {
	reqURL, err := c.buildURL(c.cfg.OSDRURL, nil, true)
	if err != nil {
		return nil, err
	}
	return c.getWithRetry(ctx, reqURL)
}

func (c *spaceClient) GetAPOD(ctx context.Context) (interface{}, error) {
	params := url.Values{}
	params.Set("thumbs", "true")
	reqURL, err := c.buildURL(c.cfg.APODURL, params, true)
	if err != nil {
		return nil, err
	}
	return c.getWithRetry(ctx, reqURL)
}

func (c *spaceClient) GetNEO(ctx context.Context) (interface{}, error) {
	from, to := lastDays(2)
	params := url.Values{}
	params.Set("start_date", from)
	params.Set("end_date", to)
	reqURL, err := c.buildURL(c.cfg.NEOURL, params, true)
	if err != nil {
		return nil, err
	}
	return c.getWithRetry(ctx, reqURL)
}

func (c *spaceClient) GetDONKIFLR(ctx context.Context) (interface{}, error) {
	return c.getDONKI(ctx, "FLR")
}

func (c *spaceClient) GetDONKICME(ctx context.Context) (interface{}, error) {
	return c.getDONKI(ctx, "CME")
}

func (c *spaceClient) getDONKI(ctx context.Context, eventType string) (interface{}, error) {
	from, to := lastDays(5)
	params := url.Values{}
	params.Set("startDate", from)
	params.Set("endDate", to)
	reqURL, err := c.buildURL(c.cfg.DONKIURL+"/"+eventType, params, true)
	if err != nil {
		return nil, err
	}
	return c.getWithRetry(ctx, reqURL)
}

func (c *spaceClient) GetSpaceX(ctx context.Context) (interface{}, error) {
	return c.getWithRetry(ctx, c.cfg.SpaceXURL)
}

// lastDays — скользящее окно дат [сегодня-n, сегодня] по UTC,
// вычисляется в момент вызова.
func lastDays(n int) (string, string) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -n)
	return from.Format("2006-01-02"), to.Format("2006-01-02")
}
