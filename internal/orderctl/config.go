// Package orderctl implements the orderctl command: it reads or generates
// lineups, orders them locally or through a running server, and renders the
// result as styled tables.
package orderctl

import (
	"errors"
	"time"

	"github.com/okian/stageorder/internal/domain/types"
)

// Defaults for the command.
const (
	DefaultTimeout = 30 * time.Second
	defaultWorkers = 4
)

// ErrNoInput is returned when neither files nor -generate were given.
var ErrNoInput = errors.New("no lineup files given and -generate not set")

// Config holds the parsed command line.
type Config struct {
	Files    []string      // Lineup files to order
	Generate int           // Generate a synthetic lineup with this many bands
	Seed     int64         // Seed for the generator
	Output   string        // Write generated lineups here instead of ordering them
	Explain  bool          // Print score details
	Locale   string        // Keyword table for local ordering: ja, en or all
	URL      string        // Order through a running server instead of locally
	Token    string        // Bearer token for the server
	Timeout  time.Duration // HTTP request timeout
	Workers  int           // Local worker pool size
	JSON     bool          // Print JSON instead of tables
}

// Stats summarizes one run.
type Stats struct {
	Lineups   int
	Bands     int
	StartTime time.Time
	Duration  time.Duration
}

// batchRequest mirrors POST /api/v1/running-order/batch.
type batchRequest struct {
	Lineups any `json:"lineups"`
}

// batchResponse mirrors the batch endpoint's reply.
type batchResponse struct {
	Orders []types.RunningOrder `json:"orders"`
}

// errorResponse mirrors the API error body.
type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}
