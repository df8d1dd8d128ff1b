package export

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Writer serializes analysis results to the output directory as CSV,
// JSON, and xlsx artifacts.
type Writer struct {
	outDir string
	logger *logrus.Logger
}

// NewWriter creates an export writer rooted at outDir.
func NewWriter(outDir string, logger *logrus.Logger) *Writer {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Writer{outDir: outDir, logger: logger}
}

func (w *Writer) ensureOutDir() error {
	return os.MkdirAll(w.outDir, 0755)
}

// ftoa renders a float with a fixed number of decimals for tabular
// output.
func ftoa(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// ftoaPtr renders a nullable float, empty when absent.
func ftoaPtr(v *float64, decimals int) string {
	if v == nil {
		return ""
	}
	return ftoa(*v, decimals)
}

func boolToFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
