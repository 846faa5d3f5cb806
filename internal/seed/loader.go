// Package seed loads catalogue documents from S3 or the local file system
// and upserts them into the database.
package seed

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// maxDocumentBytes bounds a single decompressed seed document.
const maxDocumentBytes = 64 << 20

// Loader reads a raw seed document by name.
type Loader interface {
	// Load returns the document contents, gunzipped when compressed.
	Load(ctx context.Context, name string) ([]byte, error)
}

// fileLoader implements Loader for documents under a local directory.
type fileLoader struct {
	dir    string
	logger zerolog.Logger
}

// NewFileLoader creates a loader rooted at dir.
func NewFileLoader(dir string, logger zerolog.Logger) Loader {
	return &fileLoader{
		dir:    dir,
		logger: logger.With().Str("component", "seed-loader").Logger(),
	}
}

// Load reads dir/name from disk.
func (l *fileLoader) Load(ctx context.Context, name string) ([]byte, error) {
	filePath := filepath.Join(l.dir, name)
	l.logger.Info().Str("file", filePath).Msg("loading seed file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open seed file")
		return nil, fmt.Errorf("failed to open seed file %s: %w", filePath, err)
	}
	defer file.Close()

	data, err := readDocument(ctx, file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("error reading seed file")
		return nil, fmt.Errorf("error reading seed file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("bytes", len(data)).
		Msg("seed file loaded successfully")

	return data, nil
}

var gzipMagic = []byte{0x1f, 0x8b}

// readDocument reads r fully, transparently decompressing gzip input.
func readDocument(ctx context.Context, r io.Reader) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	br := bufio.NewReader(r)
	head, err := br.Peek(len(gzipMagic))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, err
	}

	var src io.Reader = br
	if bytes.Equal(head, gzipMagic) {
		gzipReader, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzipReader.Close()
		src = gzipReader
	}

	data, err := io.ReadAll(io.LimitReader(src, maxDocumentBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDocumentBytes {
		return nil, fmt.Errorf("document exceeds %d bytes", maxDocumentBytes)
	}
	return data, nil
}
