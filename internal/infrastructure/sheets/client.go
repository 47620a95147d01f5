package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mujeebabdul-99/sports-card-text-extraction/internal/domain"
	"github.com/mujeebabdul-99/sports-card-text-extraction/internal/infrastructure/metrics"
)

// ClientConfig configures the Google Sheets client
type ClientConfig struct {
	CredentialsFile   string
	CredentialsJSON   string
	RequestsPerMinute int
	Timeout           time.Duration

	// Endpoint and HTTPClient override the API host and transport (tests, proxies).
	// When HTTPClient is set no credentials are required.
	Endpoint   string
	HTTPClient *http.Client
}

// Client handles communication with the Google Sheets v4 API
type Client struct {
	service     *sheetsapi.Service
	rateLimiter *rate.Limiter
	timeout     time.Duration
	logger      *zap.Logger
	metrics     *metrics.Metrics
	debug       bool
}

// NewClient creates a new Sheets client. It returns domain.ErrSheetsNotConfigured
// when no credentials or transport were supplied.
func NewClient(ctx context.Context, cfg ClientConfig, logger *zap.Logger, m *metrics.Metrics) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	switch {
	case cfg.HTTPClient != nil:
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	default:
		return nil, domain.ErrSheetsNotConfigured
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	service, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSheetsNotConfigured, err)
	}

	// Sheets allows 60 write requests per minute per user
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		service:     service,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 5),
		timeout:     timeout,
		logger:      logger.Named("sheets"),
		metrics:     m,
	}, nil
}

// SetDebug enables per-call debug logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// call waits for the limiter, bounds the call with the client timeout and records latency
func (c *Client) call(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	c.metrics.ObserveSheetsCall(operation, start)

	if c.debug {
		c.logger.Debug("sheets call",
			zap.String("operation", operation),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
	}
	if err != nil {
		return mapError(operation, err)
	}
	return nil
}

// SheetTitles returns the tab names of a spreadsheet
func (c *Client) SheetTitles(ctx context.Context, spreadsheetID string) ([]string, error) {
	var titles []string
	err := c.call(ctx, "get_spreadsheet", func(ctx context.Context) error {
		resp, err := c.service.Spreadsheets.Get(spreadsheetID).
			Fields(googleapi.Field("sheets.properties.title")).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		for _, sheet := range resp.Sheets {
			if sheet.Properties != nil {
				titles = append(titles, sheet.Properties.Title)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return titles, nil
}

// AddSheet creates a new tab
func (c *Client) AddSheet(ctx context.Context, spreadsheetID, title string) error {
	c.logger.Info("adding sheet tab", zap.String("spreadsheet_id", spreadsheetID), zap.String("sheet", title))

	return c.call(ctx, "add_sheet", func(ctx context.Context) error {
		req := &sheetsapi.BatchUpdateSpreadsheetRequest{
			Requests: []*sheetsapi.Request{{
				AddSheet: &sheetsapi.AddSheetRequest{
					Properties: &sheetsapi.SheetProperties{Title: title},
				},
			}},
		}
		_, err := c.service.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do()
		return err
	})
}

// ReadValues reads a range and returns every cell as a string
func (c *Client) ReadValues(ctx context.Context, spreadsheetID, readRange string) ([][]string, error) {
	var rows [][]string
	err := c.call(ctx, "get_values", func(ctx context.Context) error {
		resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
		if err != nil {
			return err
		}
		rows = make([][]string, 0, len(resp.Values))
		for _, raw := range resp.Values {
			row := make([]string, len(raw))
			for i, cell := range raw {
				if cell != nil {
					row[i] = fmt.Sprint(cell)
				}
			}
			rows = append(rows, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateValues overwrites exactly writeRange with rows. Values are written RAW
// so card text is never interpreted as formulas or numbers.
func (c *Client) UpdateValues(ctx context.Context, spreadsheetID, writeRange string, rows [][]string) error {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = make([]interface{}, len(row))
		for j, cell := range row {
			values[i][j] = cell
		}
	}

	return c.call(ctx, "update_values", func(ctx context.Context) error {
		body := &sheetsapi.ValueRange{
			Range:          writeRange,
			MajorDimension: "ROWS",
			Values:         values,
		}
		_, err := c.service.Spreadsheets.Values.Update(spreadsheetID, writeRange, body).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		return err
	})
}

// mapError converts API errors into domain errors
func mapError(operation string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
		return fmt.Errorf("%w: %s", domain.ErrSpreadsheetNotFound, apiErr.Message)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrSheetsAPIFailure, operation, err)
}
