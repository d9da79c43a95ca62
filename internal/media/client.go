package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the media-hosting HTTP API. Calls are plain pass-through:
// no retries, no caching, upstream errors are propagated to the caller.
type Client struct {
	baseURL   string
	apiKey    string
	apiSecret string
	http      *http.Client
}

func NewClient(baseURL, apiKey, apiSecret string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		apiSecret: apiSecret,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type hostAsset struct {
	PublicID  string `json:"public_id"`
	Format    string `json:"format"`
	Bytes     int64  `json:"bytes"`
	URL       string `json:"url"`
	SecureURL string `json:"secure_url"`
	Folder    string `json:"folder"`
	CreatedAt string `json:"created_at"`
}

type hostListResponse struct {
	Resources  []hostAsset `json:"resources"`
	NextCursor string      `json:"next_cursor"`
}

func (c *Client) ListAssets(ctx context.Context, folder, cursor string, limit int) (*AssetList, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}

	val := url.Values{}
	val.Set("max_results", fmt.Sprint(limit))
	if folder != "" {
		val.Set("prefix", folder)
	}
	if cursor != "" {
		val.Set("next_cursor", cursor)
	}

	var body hostListResponse
	if err := c.do(ctx, http.MethodGet, "/resources?"+val.Encode(), nil, &body); err != nil {
		return nil, err
	}

	assets := make([]Asset, 0, len(body.Resources))
	for _, res := range body.Resources {
		assets = append(assets, Asset{
			PublicID:  res.PublicID,
			Format:    res.Format,
			Bytes:     res.Bytes,
			URL:       res.URL,
			SecureURL: res.SecureURL,
			Folder:    res.Folder,
			CreatedAt: res.CreatedAt,
		})
	}

	return &AssetList{
		Assets:     assets,
		NextCursor: body.NextCursor,
	}, nil
}

func (c *Client) DeleteAsset(ctx context.Context, publicID string) error {
	val := url.Values{}
	val.Set("public_id", publicID)

	return c.do(ctx, http.MethodDelete, "/resources?"+val.Encode(), nil, nil)
}

func (c *Client) RenameAsset(ctx context.Context, from, to string) (*Asset, error) {
	val := url.Values{}
	val.Set("from_public_id", from)
	val.Set("to_public_id", to)

	var res hostAsset
	if err := c.do(ctx, http.MethodPost, "/resources/rename", strings.NewReader(val.Encode()), &res); err != nil {
		return nil, err
	}

	return &Asset{
		PublicID:  res.PublicID,
		Format:    res.Format,
		Bytes:     res.Bytes,
		URL:       res.URL,
		SecureURL: res.SecureURL,
		Folder:    res.Folder,
		CreatedAt: res.CreatedAt,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.SetBasicAuth(c.apiKey, c.apiSecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("media host status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
