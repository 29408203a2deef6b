package filemanager

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aleister1102/holidaysync/internal/common/errorwrapper"
	"github.com/rs/zerolog"
)

// FileReader handles file reading operations
type FileReader struct {
	logger zerolog.Logger
}

func NewFileReader(logger zerolog.Logger) *FileReader {
	return &FileReader{
		logger: logger.With().Str("component", "FileReader").Logger(),
	}
}

// ReadFile reads the whole file, honouring the timeout and context in opts.
func (fr *FileReader) ReadFile(path string, opts FileReadOptions) ([]byte, error) {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	type readResult struct {
		data []byte
		err  error
	}
	done := make(chan readResult, 1)
	go func() {
		data, err := fr.performFileRead(path, opts.MaxSize)
		done <- readResult{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		fr.logger.Warn().Str("path", path).Msg("File read cancelled due to context timeout")
		return nil, errorwrapper.WrapError(ctx.Err(), "file read operation cancelled")
	case res := <-done:
		if res.err != nil {
			return nil, errorwrapper.WrapError(res.err, fmt.Sprintf("failed to read file: %s", path))
		}
		return res.data, nil
	}
}

func (fr *FileReader) performFileRead(path string, maxSize int64) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fr.logger.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	var reader io.Reader = file
	if maxSize > 0 {
		reader = io.LimitReader(file, maxSize)
	}
	return io.ReadAll(reader)
}
