package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/itchyny/gojq"
	"github.com/thirukguru/aws-edge-audit/service/correlator"
)

// Query runs a jq expression over the scan document at path and writes each
// result to w as indented JSON.
func Query(ctx context.Context, path, expr string, w io.Writer) error {
	query, err := gojq.Parse(expr)
	if err != nil {
		return fmt.Errorf("parse query: %w", err)
	}

	var doc any
	if err := correlator.ReadDocument(path, &doc); err != nil {
		return err
	}

	results, err := run(ctx, query, doc)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	for _, v := range results {
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	return nil
}

func run(ctx context.Context, query *gojq.Query, input any) ([]any, error) {
	var out []any
	iter := query.RunWithContext(ctx, input)
	for {
		v, ok := iter.Next()
		if !ok {
			return out, nil
		}
		if err, ok := v.(error); ok {
			var halt *gojq.HaltError
			if errors.As(err, &halt) && halt.Value() == nil {
				return out, nil
			}
			return nil, fmt.Errorf("run query: %w", err)
		}
		out = append(out, v)
	}
}
