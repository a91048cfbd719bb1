package display

import (
	"encoding/json"
	"io"

	"codeberg.org/mutker/bustop/internal/errors"
	"codeberg.org/mutker/bustop/internal/metrics"
)

// jsonSnapshot flattens the interval durations into millisecond fields so
// the wire format is stable integers rather than Go duration encoding.
type jsonSnapshot struct {
	*metrics.Snapshot

	RequestedIntervalMS int64 `json:"requested_interval_ms"`
	ActualIntervalMS    int64 `json:"actual_interval_ms"`
}

type jsonRenderer struct {
	enc *json.Encoder
}

func newJSONRenderer(w io.Writer) *jsonRenderer {
	return &jsonRenderer{enc: json.NewEncoder(w)}
}

func (r *jsonRenderer) Emit(snapshot *metrics.Snapshot) error {
	out := jsonSnapshot{
		Snapshot:            snapshot,
		RequestedIntervalMS: snapshot.RequestedInterval.Milliseconds(),
		ActualIntervalMS:    snapshot.ActualInterval.Milliseconds(),
	}

	if err := r.enc.Encode(out); err != nil {
		return errors.New().Wrap(ErrRenderFailed, err)
	}

	return nil
}
