package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nkaewam/catalogctl/internal/cli"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var contactOpen bool

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Read and answer customer contact messages",
}

var contactListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contact messages, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, c *cli.Container) error {
			_, err := c.Contact.List(ctx, contactOpen)
			return err
		})
	},
}

var contactRespondCmd = &cobra.Command{
	Use:   "respond <id>",
	Short: "Mark a message as responded",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, c *cli.Container) error {
			return c.Contact.Respond(ctx, args[0])
		})
	},
}

var (
	devAddr string
	devSeed bool
)

var devServerCmd = &cobra.Command{
	Use:   "dev-server",
	Short: "Run an in-memory backend for trying the console locally",
	Run: func(cmd *cobra.Command, args []string) {
		dev, err := cli.InitializeDevServer(configPath)
		if err != nil {
			fmt.Printf("Error initializing dev server: %v\n", err)
			os.Exit(1)
		}
		defer dev.Logger.Sync()

		addr := dev.Config.DevServer.Addr
		if devAddr != "" {
			addr = devAddr
		}
		if devSeed {
			dev.Server.SeedDemo()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- dev.Server.Listen(addr)
		}()

		fmt.Printf("● Dev backend on http://%s (admin %s)\n", addr, dev.Config.DevServer.AdminEmail)
		select {
		case <-ctx.Done():
			dev.Logger.Info("shutting down dev backend")
			if err := dev.Server.Shutdown(); err != nil {
				dev.Logger.Error("shutdown failed", zap.Error(err))
			}
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				fmt.Printf("❌ Dev backend stopped: %v\n", err)
				os.Exit(1)
			}
		}
	},
}

func init() {
	contactListCmd.Flags().BoolVar(&contactOpen, "open", false, "Only messages not yet responded to")
	contactCmd.AddCommand(contactListCmd)
	contactCmd.AddCommand(contactRespondCmd)

	devServerCmd.Flags().StringVar(&devAddr, "addr", "", "Listen address (default dev_server.addr)")
	devServerCmd.Flags().BoolVar(&devSeed, "seed", false, "Preload demo products and a contact message")
}
