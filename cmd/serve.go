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
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eslsoft/vocquiz/internal/adapter/chat"
	"github.com/eslsoft/vocquiz/internal/adapter/telegram"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot and the status HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cleanup, err := initContainer(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		logger := c.Logger

		bot, err := telegram.NewBot(c.Config, logger)
		if err != nil {
			return fmt.Errorf("telegram: %w", err)
		}
		dispatcher := chat.NewDispatcher(c.NewGame(bot), c.Config.Telegram.SessionIdle, logger)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		errCh := make(chan error, 2)
		go func() { errCh <- c.Server.Start() }()
		go func() { errCh <- bot.Run(ctx, dispatcher) }()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case sig := <-sigCh:
			logger.Infof("received signal: %s, shutting down", sig)
		case err = <-errCh:
			if err != nil {
				logger.WithError(err).Error("component stopped")
			}
		}

		cancel()
		dispatcher.Wait()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if serr := c.Server.Shutdown(shutdownCtx); serr != nil && err == nil {
			err = serr
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("http-addr", "", "status server listen address")
	serveCmd.Flags().Duration("session-idle", 0, "drop a chat session after this much inactivity")
	bindFlagToViper("http.addr", serveCmd.Flags().Lookup("http-addr"))
	bindFlagToViper("telegram.session_idle", serveCmd.Flags().Lookup("session-idle"))
}
