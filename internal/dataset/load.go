package dataset

import (
	"context"
	"fmt"

	"github.com/jask/greetcard/internal/card"
)

// Load fetches and parses the dataset and looks id up in it. On any error
// the returned record is blank.
func Load(ctx context.Context, src Source, id string) (card.Record, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return card.Record{}, err
	}
	defer rc.Close()

	t, err := Parse(rc)
	if err != nil {
		return card.Record{}, fmt.Errorf("parse %s: %w", src, err)
	}
	rec, ok := t.Lookup(id)
	if !ok {
		return card.Record{}, fmt.Errorf("lookup %q in %s: %w", id, src, ErrNotFound)
	}
	return rec, nil
}
