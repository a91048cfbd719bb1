// Package display renders snapshots to a writer in one of three formats:
// a full-screen table, newline-delimited JSON, or a compact append line.
package display

import (
	"io"

	"codeberg.org/mutker/bustop/internal/config"
	"codeberg.org/mutker/bustop/internal/errors"
	"codeberg.org/mutker/bustop/internal/metrics"
)

const (
	bytesPerMB = 1024.0 * 1024.0
	bytesPerGB = 1024.0 * 1024.0 * 1024.0
)

// Renderer writes one snapshot per call.
type Renderer interface {
	Emit(snapshot *metrics.Snapshot) error
}

func NewRenderer(format string, w io.Writer, host metrics.HostInfo) (Renderer, error) {
	switch format {
	case config.FormatTable:
		return &tableRenderer{w: w, host: host}, nil
	case config.FormatJSON:
		return newJSONRenderer(w), nil
	case config.FormatAppend:
		return &appendRenderer{w: w}, nil
	default:
		return nil, errors.New().WithData(ErrUnknownFormat, format)
	}
}
