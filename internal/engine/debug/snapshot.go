package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Snapshot writes debug images to a directory.
type Snapshot struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// NewSnapshot creates a snapshot writer. Files are named
// <prefix>_<timestamp>[_<tag>].png.
func NewSnapshot(outputDir, prefix string) *Snapshot {
	return &Snapshot{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// Filename returns the path the next Save with tag would write to.
func (s *Snapshot) Filename(tag string) string {
	name := s.prefix + "_" + s.now().Format("2006-01-02_15-04-05")
	if tag != "" {
		name += "_" + tag
	}
	name += ".png"
	if s.outputDir != "" {
		name = filepath.Join(s.outputDir, name)
	}
	return name
}

// Save encodes img as PNG and returns the written path.
func (s *Snapshot) Save(img image.Image, tag string) (string, error) {
	if s.outputDir != "" {
		if err := os.MkdirAll(s.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := s.Filename(tag)
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}
