// Package sheets reads cell ranges from the Google Sheets values API.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

const defaultTimeout = 30 * time.Second

// ErrNoData means the range holds no rows beyond the header, or the API
// answered with an error status instead of values. Callers treat it as an
// empty sheet rather than a failed load.
var ErrNoData = errors.New("no data")

// Fetcher is the read side the loader depends on.
type Fetcher interface {
	Values(ctx context.Context, spreadsheetID, sheet, cellRange string) ([][]string, error)
}

type Options struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
	// HTTPClient replaces the default transport. The API key is not applied
	// when it is set.
	HTTPClient *http.Client
}

type Client struct {
	svc     *sheetsapi.Service
	timeout time.Duration
}

func New(ctx context.Context, opts Options) (*Client, error) {
	var clientOpts []option.ClientOption
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(opts.HTTPClient))
	} else {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	svc, err := sheetsapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{svc: svc, timeout: timeout}, nil
}

// A1Range builds a sheet-qualified range such as 'System Development'!A:M.
func A1Range(sheet, cellRange string) string {
	quoted := "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	if cellRange == "" {
		return quoted
	}
	return quoted + "!" + cellRange
}

// Values fetches a range as rows of strings, row 0 being the header. It
// returns ErrNoData for an empty range or an API error status; transport and
// decoding failures are returned as is.
func (c *Client) Values(ctx context.Context, spreadsheetID, sheet, cellRange string) ([][]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	rng := A1Range(sheet, cellRange)
	resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("%w: %s returned %d: %s", ErrNoData, rng, apiErr.Code, apiErr.Message)
		}
		return nil, fmt.Errorf("fetch %s: %w", rng, err)
	}

	rows := Stringify(resp.Values)
	if len(rows) < 2 {
		return rows, fmt.Errorf("%w: %s has %d rows", ErrNoData, rng, len(rows))
	}
	return rows, nil
}

// Stringify converts untyped cells to strings. nil cells become "".
func Stringify(values [][]interface{}) [][]string {
	if values == nil {
		return nil
	}
	rows := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			if v != nil {
				cells[j] = fmt.Sprint(v)
			}
		}
		rows[i] = cells
	}
	return rows
}
