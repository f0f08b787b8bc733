//go:build wireinject

package app

import (
	"context"
	"io"

	"github.com/google/wire"

	"github.com/sandeepkv93/shophub-client/internal/config"
)

func Initialize(ctx context.Context, cfg *config.Config, out io.Writer) (*App, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
