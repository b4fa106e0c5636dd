package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/apaaranddhruv/satsang/internal/config"
)

// Sheet is an adapter backed by the remote tabular API, the stated
// long-term system of record. Each content kind maps to one tab.
type Sheet struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewSheet creates a sheet API adapter
func NewSheet(cfg config.SheetConfig) *Sheet {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Sheet{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		client:  &http.Client{Timeout: timeout},
	}
}

type rowsResponse struct {
	Rows []Row `json:"rows"`
}

// GetRows returns all rows in a tab in sheet order
func (s *Sheet) GetRows(ctx context.Context, kind string) ([]Row, error) {
	body, status, err := s.do(ctx, http.MethodGet, s.tabURL(kind), nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: sheet API returned status %d", ErrAdapter, status)
	}

	var resp rowsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed sheet response: %v", ErrAdapter, err)
	}

	return resp.Rows, nil
}

// AppendRow appends a row to a tab
func (s *Sheet) AppendRow(ctx context.Context, kind string, row Row) error {
	payload, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal row: %v", ErrAdapter, err)
	}

	_, status, err := s.do(ctx, http.MethodPost, s.tabURL(kind), payload)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return fmt.Errorf("%w: sheet API returned status %d", ErrAdapter, status)
	}

	return nil
}

// UpdateRow merges fields onto the row with the given id
func (s *Sheet) UpdateRow(ctx context.Context, kind, id string, fields Row) error {
	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal fields: %v", ErrAdapter, err)
	}

	_, status, err := s.do(ctx, http.MethodPatch, s.rowURL(kind, id), payload)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return ErrNotFound
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: sheet API returned status %d", ErrAdapter, status)
	}

	return nil
}

// DeleteRow removes the row with the given id
func (s *Sheet) DeleteRow(ctx context.Context, kind, id string) (bool, error) {
	_, status, err := s.do(ctx, http.MethodDelete, s.rowURL(kind, id), nil)
	if err != nil {
		return false, err
	}
	if status == http.StatusNotFound {
		return false, nil
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return false, fmt.Errorf("%w: sheet API returned status %d", ErrAdapter, status)
	}

	return true, nil
}

// CountRows returns the number of rows in a tab
func (s *Sheet) CountRows(ctx context.Context, kind string) (int, error) {
	rows, err := s.GetRows(ctx, kind)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (s *Sheet) tabURL(kind string) string {
	return fmt.Sprintf("%s/tabs/%s/rows", s.baseURL, kind)
}

func (s *Sheet) rowURL(kind, id string) string {
	return fmt.Sprintf("%s/tabs/%s/rows/%s", s.baseURL, kind, id)
}

func (s *Sheet) do(ctx context.Context, method, url string, payload []byte) ([]byte, int, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to create request: %v", ErrAdapter, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: request failed: %v", ErrAdapter, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to read response: %v", ErrAdapter, err)
	}

	return data, resp.StatusCode, nil
}
