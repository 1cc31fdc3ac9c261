package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/treasury-ledger/treasury/internal/model"
)

const fileDateFormat = "2006-01-02"

// FileName returns "<prefix>_<YYYY-MM-DD>.json" for the given day.
func FileName(prefix string, day time.Time) string {
	return fmt.Sprintf("%s_%s.json", prefix, day.Format(fileDateFormat))
}

// Export writes the store to dir under FileName and returns the path written.
func Export(dir, prefix string, day time.Time, s model.Store) (string, error) {
	data, err := Encode(s)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating backup dir: %w", err)
	}

	path := filepath.Join(dir, FileName(prefix, day))
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("writing backup: %w", err)
	}
	return path, nil
}

// ReadFile loads a backup from disk. Malformed content is a FormatError.
func ReadFile(path string) (model.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading backup: %w", err)
	}
	return Decode(data)
}
