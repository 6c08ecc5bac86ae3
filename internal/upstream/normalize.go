package upstream

import (
	"bytes"
	"encoding/json"

	appErrors "github.com/belalwws/noor-academy-sub008/pkg/errors"
)

// List is the canonical list-fetch result every endpoint shape collapses to.
type List[T any] struct {
	Results []T
	Count   int
}

// DecodeList normalises the backend's list payload variants — a
// `{results, count}` envelope, a `{data}` envelope, or a bare array — into a
// single shape so no caller ever duck-types a response again.
func DecodeList[T any](raw []byte) (List[T], error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return List[T]{}, nil
	}

	if trimmed[0] == '[' {
		var rows []T
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return List[T]{}, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "unexpected list body")
		}
		return List[T]{Results: rows, Count: len(rows)}, nil
	}

	var envelope struct {
		Results json.RawMessage `json:"results"`
		Data    json.RawMessage `json:"data"`
		Count   *int            `json:"count"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return List[T]{}, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "unexpected list body")
	}

	rowsRaw := envelope.Results
	if rowsRaw == nil {
		rowsRaw = envelope.Data
	}

	var rows []T
	if rowsRaw != nil {
		if err := json.Unmarshal(rowsRaw, &rows); err != nil {
			return List[T]{}, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "unexpected list rows")
		}
	}

	count := len(rows)
	if envelope.Count != nil {
		count = *envelope.Count
	}
	return List[T]{Results: rows, Count: count}, nil
}
