package appstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/saulo-duarte/prepmate-api/internal/client"
	"github.com/saulo-duarte/prepmate-api/internal/curriculum"
)

var ErrInvalidImport = errors.New("import document must contain a subjects array")

type ImportMode string

const (
	ImportMerge   ImportMode = "merge"
	ImportReplace ImportMode = "replace"
)

func ParseImportMode(s string) (ImportMode, error) {
	switch m := ImportMode(s); m {
	case ImportMerge, ImportReplace:
		return m, nil
	case "":
		return ImportReplace, nil
	}
	return "", fmt.Errorf("unknown import mode %q", s)
}

// Export writes the current subjects and results as indented JSON.
func (s *Store) Export(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s.Data())
}

func ExportFileName(now time.Time) string {
	return "prepmate_backup_" + now.UTC().Format("2006-01-02") + ".json"
}

// Import reads an exported document and pushes its subjects to the server
// one at a time. Results in the document are ignored.
func (s *Store) Import(ctx context.Context, r io.Reader, mode ImportMode) (int, error) {
	var doc struct {
		Subjects *[]curriculum.Subject `json:"subjects"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if doc.Subjects == nil {
		return 0, ErrInvalidImport
	}
	subjects := *doc.Subjects
	for _, sub := range subjects {
		if err := sub.Validate(); err != nil {
			return 0, fmt.Errorf("subject %s: %w", sub.ID, err)
		}
	}

	log := s.log.WithField("mode", mode)

	if mode == ImportReplace {
		if err := s.Refresh(ctx); err != nil {
			return 0, err
		}
		for _, existing := range s.Subjects() {
			if err := s.api.DeleteSubject(ctx, existing.ID); err != nil {
				log.WithError(err).WithField("subject_id", existing.ID).Error("failed to delete subject before import")
				return 0, err
			}
		}
	}

	imported := 0
	for _, sub := range subjects {
		if sub.Chapters == nil {
			sub.Chapters = []curriculum.Chapter{}
		}
		if err := s.importSubject(ctx, sub, mode); err != nil {
			log.WithError(err).WithField("subject_id", sub.ID).Error("failed to import subject")
			return imported, err
		}
		imported++
	}

	log.WithField("count", imported).Info("import finished")
	return imported, s.Refresh(ctx)
}

func (s *Store) importSubject(ctx context.Context, sub curriculum.Subject, mode ImportMode) error {
	if mode == ImportMerge {
		_, err := s.api.SyncSubject(ctx, sub)
		if err == nil || !client.IsNotFound(err) {
			return err
		}
	}
	_, err := s.api.CreateSubject(ctx, sub)
	return err
}
