package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	fberrors "github.com/matzehuels/fbnet/pkg/errors"
	fbio "github.com/matzehuels/fbnet/pkg/io"
	"github.com/matzehuels/fbnet/pkg/network"
	"github.com/matzehuels/fbnet/pkg/typelib"
)

// Parse reads the input document and resolves every instance's interface.
// Instances whose type is missing from the library get an interface
// inferred from their connections.
func Parse(ctx context.Context, opts Options) (*network.Network, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, err
	}
	data, err := ReadInput(opts)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n, err := fbio.ParseNetwork(data)
	if err != nil {
		return nil, err
	}

	lib := opts.Library
	if lib == nil {
		lib = typelib.New(opts.LibraryDirs(), typelib.WithLogger(opts.Logger))
	}
	if err := lib.Index(); err != nil {
		return nil, fmt.Errorf("index type library: %w", err)
	}
	typelib.NewResolver(lib, typelib.WithResolverLogger(opts.Logger)).Resolve(n)

	return n, nil
}

// ReadInput returns the input bytes: opts.Input when set, else the
// contents of opts.InputPath.
func ReadInput(opts Options) ([]byte, error) {
	if len(opts.Input) > 0 {
		return opts.Input, nil
	}
	data, err := os.ReadFile(opts.InputPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fberrors.Wrap(fberrors.ErrCodeFileNotFound, err, "read %s", opts.InputPath)
		}
		return nil, fberrors.Wrap(fberrors.ErrCodeInvalidInput, err, "read %s", opts.InputPath)
	}
	return data, nil
}
