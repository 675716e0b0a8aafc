package providers

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/systmms/valt/internal/logging"
	"github.com/systmms/valt/pkg/provider"
)

// DotenvProvider reads values from dotenv files. Files are parsed on every
// call; relative paths are taken from BaseDir.
type DotenvProvider struct {
	BaseDir string
	logger  *logging.Logger
}

// NewDotenvProvider creates a provider resolving relative paths against baseDir.
func NewDotenvProvider(baseDir string, logger *logging.Logger) *DotenvProvider {
	if logger == nil {
		logger = logging.New(false, true)
	}
	return &DotenvProvider{BaseDir: baseDir, logger: logger}
}

// Name returns the provider tag
func (p *DotenvProvider) Name() string {
	return "dotenv"
}

// Resolve returns the variable ref.Key from the file ref.Source. A missing
// file, a missing variable and an empty value are all a NotFoundError.
func (p *DotenvProvider) Resolve(ctx context.Context, ref provider.Reference) (provider.SecretValue, error) {
	path := p.path(ref.Source)
	notFound := &provider.NotFoundError{Provider: p.Name(), Source: ref.Source, Key: ref.Key}

	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			p.logger.Debug("Dotenv file %s does not exist", path)
			return provider.SecretValue{}, notFound
		}
		return provider.SecretValue{}, err
	}

	value, ok := values[ref.Key]
	if !ok || value == "" {
		return provider.SecretValue{}, notFound
	}

	return provider.SecretValue{
		Value: value,
		Metadata: map[string]string{
			"provider": p.Name(),
			"file":     ref.Source,
			"variable": ref.Key,
		},
	}, nil
}

func (p *DotenvProvider) path(file string) string {
	if filepath.IsAbs(file) || p.BaseDir == "" {
		return file
	}
	return filepath.Join(p.BaseDir, file)
}
