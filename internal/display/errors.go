package display

import "codeberg.org/mutker/bustop/internal/errors"

const (
	ErrUnknownFormat = errors.ErrorCode("display_unknown_format")
	ErrRenderFailed  = errors.ErrorCode("display_render_failed")
)
