package loader

import (
	"context"
	"errors"
	"io/fs"
)

func loadFromFS(ctx context.Context, files fs.FS, name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("schema loader: fs path is required")
	}
	if files == nil {
		return nil, errors.New("schema loader: fs is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := files.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readLimited(f, name)
}
