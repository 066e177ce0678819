package handoff

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"litgo/pkg/schema"
)

// FilePublisher writes each synthesis as a YAML document into a drop
// directory watched by the case-assignment side. Writes go through a temp
// file and rename so a partially written document is never picked up.
type FilePublisher struct {
	Dir string
}

// Publish implements AssignmentPublisher.
func (p *FilePublisher) Publish(_ context.Context, record *schema.SynthesisRecord) error {
	if err := os.MkdirAll(p.Dir, 0755); err != nil {
		return fmt.Errorf("create publish directory: %w", err)
	}

	data, err := yaml.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode synthesis: %w", err)
	}

	final := filepath.Join(p.Dir, record.ProtocolNumber+".yaml")
	tmp := final + ".tmp"

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write synthesis file: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("publish synthesis file: %w", err)
	}
	return nil
}
