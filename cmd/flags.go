package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/eslsoft/vocquiz/internal/app"
)

// bindFlagToViper lets an explicitly set flag override the config file and environment.
func bindFlagToViper(key string, flag *pflag.Flag) {
	if flag == nil {
		return
	}
	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// initContainer builds the application and makes sure the schema exists.
func initContainer(ctx context.Context) (*app.Container, func(), error) {
	c, cleanup, err := app.Initialize()
	if err != nil {
		return nil, nil, fmt.Errorf("initialize app: %w", err)
	}
	if err := c.Conn.Migrate(ctx); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return c, cleanup, nil
}
