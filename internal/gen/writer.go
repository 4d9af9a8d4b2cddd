package gen

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// ErrForeignFile is returned when an output path holds a file that was not
// generated by dao-generator.
var ErrForeignFile = errors.New("refusing to overwrite a file without the generated header")

// WriteFiles writes the generated files to outputDir, creating it if
// needed, and returns the names of the files it wrote. A file whose content
// is already up to date is left untouched.
func WriteFiles(files []GeneratedFile, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, dirPerm); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var written []string

	for _, file := range files {
		path := filepath.Join(outputDir, file.Filename)

		current, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return written, fmt.Errorf("reading %s: %w", file.Filename, err)
		case bytes.Equal(current, file.Content):
			Logger().Debug("file up to date", zap.String("path", path))
			continue
		case !isGenerated(current):
			return written, fmt.Errorf("%s: %w", file.Filename, ErrForeignFile)
		}

		if err := os.WriteFile(path, file.Content, filePerm); err != nil {
			return written, fmt.Errorf("writing file %s: %w", file.Filename, err)
		}

		Logger().Debug("wrote file", zap.String("path", path), zap.Int("bytes", len(file.Content)))

		written = append(written, file.Filename)
	}

	return written, nil
}

// isGenerated reports whether content starts with the generated-code header.
func isGenerated(content []byte) bool {
	return bytes.HasPrefix(content, []byte("// "+Header+"\n"))
}

// writeUnformatted saves source that failed the import pass next to the
// intended output as <name>.unformatted.go, so the broken rendering can be
// inspected. Failures are only logged.
func writeUnformatted(outputDir, filename string, content []byte) {
	if outputDir == "" {
		return
	}

	path := filepath.Join(outputDir, strings.TrimSuffix(filename, ".go")+".unformatted.go")

	err := os.MkdirAll(outputDir, dirPerm)
	if err == nil {
		err = os.WriteFile(path, content, filePerm)
	}

	if err != nil {
		Logger().Warn("cannot save unformatted source", zap.String("path", path), zap.Error(err))
		return
	}

	Logger().Warn("formatting failed, saved unformatted source", zap.String("path", path))
}
