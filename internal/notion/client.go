// Package notion is the remote board adapter: it maps tasks onto pages of a
// Notion database and reads them back.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jomei/notionapi"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-sync-api/internal/model"
)

// DefaultTimeout bounds a single Notion API call.
const DefaultTimeout = 30 * time.Second

const (
	apiURL     = "https://api.notion.com/v1"
	apiVersion = "2022-06-28"
)

type Client struct {
	api        *notionapi.Client
	http       *http.Client
	token      string
	databaseID notionapi.DatabaseID
	timeout    time.Duration
	logger     *zap.Logger
}

func New(token, databaseID string, timeout time.Duration, logger *zap.Logger) *Client {
	return newClient(token, databaseID, http.DefaultClient, timeout, logger)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(token, databaseID string, httpClient *http.Client, logger *zap.Logger) *Client {
	return newClient(token, databaseID, httpClient, DefaultTimeout, logger)
}

func newClient(token, databaseID string, httpClient *http.Client, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		api:        notionapi.NewClient(notionapi.Token(token), notionapi.WithHTTPClient(httpClient)),
		http:       httpClient,
		token:      token,
		databaseID: notionapi.DatabaseID(databaseID),
		timeout:    timeout,
		logger:     logger,
	}
}

// Push updates the task's page when it is already linked, otherwise creates
// a page in the database. Returns the page ID.
func (c *Client) Push(ctx context.Context, t model.Task) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	props := TaskProperties(t)

	if t.Synced() {
		page, err := c.api.Page.Update(ctx, notionapi.PageID(*t.NotionID), &notionapi.PageUpdateRequest{
			Properties: props,
		})
		if err != nil {
			return "", fmt.Errorf("update page %s: %w", *t.NotionID, err)
		}
		c.logger.Debug("notion page updated", zap.String("task_id", t.ID), zap.String("notion_id", page.ID.String()))
		return page.ID.String(), nil
	}

	page, err := c.api.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: c.databaseID,
		},
		Properties: props,
	})
	if err != nil {
		return "", fmt.Errorf("create page: %w", err)
	}
	c.logger.Debug("notion page created", zap.String("task_id", t.ID), zap.String("notion_id", page.ID.String()))
	return page.ID.String(), nil
}

// PullAll queries the database and parses every returned page.
// Only the first page of query results is read; Notion caps it at 100 pages.
//
// The response is decoded page by page and property by property rather than
// through Database.Query: the SDK rejects the whole response when a single
// property fails to decode, here only that field falls back to its default.
func (c *Client) PullAll(ctx context.Context) ([]model.RemotePage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.queryDatabase(ctx)
	if err != nil {
		return nil, fmt.Errorf("query database %s: %w", c.databaseID, err)
	}

	if resp.HasMore {
		c.logger.Warn("notion query has more results than one page; only the first page is synced",
			zap.Int("pages", len(resp.Results)))
	}

	pages := make([]model.RemotePage, 0, len(resp.Results))
	for _, raw := range resp.Results {
		page, err := c.decodePage(raw)
		if err != nil {
			// без id страницу не с чем связать
			c.logger.Warn("skipping undecodable notion page", zap.Error(err))
			continue
		}
		pages = append(pages, ParsePage(page))
	}
	return pages, nil
}

type queryResponse struct {
	Results []json.RawMessage `json:"results"`
	HasMore bool              `json:"has_more"`
}

func (c *Client) queryDatabase(ctx context.Context) (*queryResponse, error) {
	body, err := json.Marshal(&notionapi.DatabaseQueryRequest{PageSize: 100})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/databases/%s/query", apiURL, c.databaseID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		apiErr := &notionapi.Error{Status: res.StatusCode}
		if err := json.NewDecoder(res.Body).Decode(apiErr); err != nil {
			return nil, fmt.Errorf("notion: unexpected status %d", res.StatusCode)
		}
		return nil, fmt.Errorf("%s (%d): %w", apiErr.Code, apiErr.Status, apiErr)
	}

	var out queryResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode query response: %w", err)
	}
	return &out, nil
}

// decodePage keeps every property the SDK can decode and drops the rest.
func (c *Client) decodePage(raw json.RawMessage) (notionapi.Page, error) {
	var envelope struct {
		ID         string                     `json:"id"`
		Properties map[string]json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return notionapi.Page{}, err
	}
	if envelope.ID == "" {
		return notionapi.Page{}, fmt.Errorf("page without id")
	}

	page := notionapi.Page{
		ID:         notionapi.ObjectID(envelope.ID),
		Properties: make(notionapi.Properties, len(envelope.Properties)),
	}
	for name, value := range envelope.Properties {
		var typed struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(value, &typed); err != nil || typed.Type == "" {
			continue
		}
		one, err := json.Marshal(map[string]json.RawMessage{name: value})
		if err != nil {
			continue
		}
		var props notionapi.Properties
		if err := json.Unmarshal(one, &props); err != nil {
			c.logger.Warn("malformed notion property, using default",
				zap.String("notion_id", envelope.ID), zap.String("property", name), zap.Error(err))
			continue
		}
		for k, v := range props {
			page.Properties[k] = v
		}
	}
	return page, nil
}
