/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eslsoft/vocquiz/internal/adapter/bulkfile"
	"github.com/eslsoft/vocquiz/internal/infrastructure/config"
	"github.com/eslsoft/vocquiz/internal/infrastructure/server"
)

var bulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Inspect the bulk word list",
}

var bulkStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print how many pairs are left in the bulk word list",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger, err := server.NewLogger(cfg)
		if err != nil {
			return err
		}
		source := bulkfile.NewCSVSource(cfg, logger)
		n, err := source.Remaining(cmd.Context())
		if err != nil {
			return fmt.Errorf("read %s: %w", source.Path(), err)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d pairs remaining\n", source.Path(), n)
		return err
	},
}

func init() {
	bulkCmd.AddCommand(bulkStatsCmd)
	rootCmd.AddCommand(bulkCmd)
}
