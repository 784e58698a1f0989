package pixabay

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"pixabaydl/pkg/errors"
	"pixabaydl/pkg/logger"
	"pixabaydl/pkg/models"
)

// Options configures a Client
type Options struct {
	BaseURL   string
	UserAgent string
	// Timeout bounds each request; zero means no timeout
	Timeout time.Duration
}

// Client talks to the Pixabay API and image CDN over one shared HTTP client
type Client struct {
	http    *resty.Client
	baseURL string
	logger  logger.Logger
}

// NewClient creates a new Pixabay client
func NewClient(opts Options, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultAPIURL
	}

	c := &Client{
		baseURL: opts.BaseURL,
		logger:  log.WithField("component", "pixabay"),
	}

	c.http = resty.New().
		SetTimeout(opts.Timeout).
		OnAfterResponse(c.logResponse).
		OnError(c.logError)
	if opts.UserAgent != "" {
		c.http.SetHeader("User-Agent", opts.UserAgent)
	}

	return c
}

// BaseURL returns the API endpoint the client queries
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) logResponse(_ *resty.Client, resp *resty.Response) error {
	logger.LogRequest(c.logger, resp.Request.Method, requestURL(resp.Request), resp.StatusCode(), resp.Time())
	return nil
}

func (c *Client) logError(req *resty.Request, err error) {
	c.logger.WithError(err).DebugWithFields("HTTP request failed", map[string]interface{}{
		"method": req.Method,
		"url":    requestURL(req),
	})
}

// requestURL returns the final request URL with the API key masked
func requestURL(req *resty.Request) string {
	if req.RawRequest != nil && req.RawRequest.URL != nil {
		return redactURL(req.RawRequest.URL.String())
	}
	return redactURL(req.URL)
}

// LookupImage queries the API for a single image id and returns the first hit
func (c *Client) LookupImage(ctx context.Context, apiKey string, id models.ImageID) (*models.Hit, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key": apiKey,
			"id":  id.String(),
		}).
		Get(c.baseURL)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeNetwork, 0, "lookup of image %d failed: %v", id, err)
	}

	if resp.StatusCode() != http.StatusOK {
		apiErr := errors.FromStatusCode(resp.StatusCode())
		if preview := bodyPreview(resp.Body()); preview != "" {
			apiErr.Message = preview
		}
		return nil, apiErr
	}

	var search models.SearchResponse
	if err := json.Unmarshal(resp.Body(), &search); err != nil {
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"image_id":     int(id),
			"error":        err.Error(),
			"body_preview": bodyPreview(resp.Body()),
		})
		return nil, errors.New(errors.ErrorTypeParsing, resp.StatusCode(), "failed to parse JSON: %v", err)
	}

	if len(search.Hits) == 0 {
		return nil, errors.New(errors.ErrorTypeParsing, resp.StatusCode(), "response for image %d has no hits", id)
	}

	return &search.Hits[0], nil
}

// OpenImage starts a GET for imageURL and returns the response body unread.
// The caller must close it. Any status other than 200 is returned as a typed error.
func (c *Client) OpenImage(ctx context.Context, imageURL string) (io.ReadCloser, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(imageURL)
	if err != nil {
		if resp != nil && resp.RawBody() != nil {
			resp.RawBody().Close()
		}
		return nil, errors.New(errors.ErrorTypeNetwork, 0, "request failed: %v", err)
	}

	if resp.StatusCode() != http.StatusOK {
		resp.RawBody().Close()
		return nil, errors.FromStatusCode(resp.StatusCode())
	}

	return resp.RawBody(), nil
}

// bodyPreview trims a response body for error messages
func bodyPreview(body []byte) string {
	preview := string(body)
	if len(preview) > 200 {
		preview = preview[:200] + "..."
	}
	return preview
}
