package tables

import (
	"context"
	"fmt"
	"os"

	"github.com/yanqian/destiny/internal/domain/calendar"
)

// Source yields the raw calendar table document.
type Source interface {
	Load(ctx context.Context) ([]byte, error)
	Name() string
}

// EmbeddedSource serves the table compiled into the binary.
type EmbeddedSource struct{}

// Load implements Source.
func (EmbeddedSource) Load(context.Context) ([]byte, error) {
	return calendar.EmbeddedTableData(), nil
}

// Name implements Source.
func (EmbeddedSource) Name() string { return "embedded" }

// FileSource reads the table from the local filesystem.
type FileSource struct {
	Path string
}

// Load implements Source.
func (s FileSource) Load(context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read calendar table: %w", err)
	}
	return data, nil
}

// Name implements Source.
func (s FileSource) Name() string { return "file:" + s.Path }

// Load fetches and validates a table. The result is immutable and shared by
// every converter built from it.
func Load(ctx context.Context, src Source) (*calendar.Table, error) {
	data, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load calendar table from %s: %w", src.Name(), err)
	}
	table, err := calendar.ParseTable(data)
	if err != nil {
		return nil, fmt.Errorf("calendar table from %s: %w", src.Name(), err)
	}
	return table, nil
}
