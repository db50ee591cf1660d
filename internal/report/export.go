package report

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/domain"
)

// ExportFileName builds the download name for one record's report:
// the original base name with an _analysis.txt suffix.
func ExportFileName(fileName string) string {
	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	if base == "" {
		base = "transcript"
	}
	return base + "_analysis.txt"
}

// CombinedExportFileName builds the bulk-export name for a given day.
func CombinedExportFileName(day time.Time) string {
	return "transcriptions_analysis_" + day.Format("2006-01-02") + ".txt"
}

// WriteExport writes one record's formatted report into dir and returns
// the written path.
func WriteExport(record domain.Record, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, ExportFileName(record.FileName))
	if err := os.WriteFile(path, []byte(record.FormattedReport), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// CombineReports concatenates the formatted reports of several records,
// separated by a wide rule.
func CombineReports(records []domain.Record) string {
	separator := "\n\n" + strings.Repeat("=", 80) + "\n\n"

	var b strings.Builder
	for _, record := range records {
		b.WriteString(record.FormattedReport)
		b.WriteString(separator)
	}
	return b.String()
}

// WriteCombinedExport writes a bulk export of records into dir and
// returns the written path.
func WriteCombinedExport(records []domain.Record, dir string, day time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, CombinedExportFileName(day))
	if err := os.WriteFile(path, []byte(CombineReports(records)), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
