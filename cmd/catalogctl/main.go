package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nkaewam/catalogctl/internal/cli"
	"github.com/nkaewam/catalogctl/internal/config"
	"github.com/nkaewam/catalogctl/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Admin console for the shop catalog",
	Long: `catalogctl manages the shop catalog through the backend API:
- products: upload, edit, stock toggles, delete
- banners: home slider, side, category, product-type and offer banners
- contact: customer messages

Run 'catalogctl init' to create catalogctl.yaml, then 'catalogctl login'.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to catalogctl.yaml config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(productCmd)
	rootCmd.AddCommand(bannerCmd)
	rootCmd.AddCommand(offerCmd)
	rootCmd.AddCommand(contactCmd)
	rootCmd.AddCommand(devServerCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// run builds the container, runs fn and turns its error into the exit status.
func run(fn func(ctx context.Context, c *cli.Container) error) {
	c, cleanup, err := cli.InitializeContainer(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = fn(ctx, c)
	stop()
	_ = c.Logger.Sync()
	cleanup()

	if err == nil {
		return
	}
	if errors.Is(err, session.ErrLoginRequired) {
		c.UI.Fail("%s", err.Error())
	} else {
		c.Logger.Debug("command failed", zap.Error(err))
	}
	os.Exit(1)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create catalogctl.yaml with default settings",
	Run: func(cmd *cobra.Command, args []string) {
		handleInit(configPath)
	},
}

func handleInit(configPath string) {
	if configPath == "" {
		configPath = config.DefaultFile
	}

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Config file %s already exists\n", configPath)
		return
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Error creating config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Save(configPath); err != nil {
		fmt.Printf("Error writing config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("● Created %s\n", configPath)
	fmt.Printf("  Backend: %s\n", cfg.API.BaseURL)
	fmt.Printf("  Session store: %s\n", cfg.Session.StorePath)

	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit api.base_url to point at your backend (or run 'catalogctl dev-server')")
	fmt.Println("  2. Run 'catalogctl login'")
	fmt.Println("  3. Run 'catalogctl product list'")
}

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the admin session",
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, c *cli.Container) error {
			_, err := c.Auth.Login(ctx, loginEmail, loginPassword)
			return err
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored admin session",
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, c *cli.Container) error {
			return c.Auth.Logout()
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether an admin session is stored",
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, c *cli.Container) error {
			_, err := c.Auth.Status()
			return err
		})
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Admin email (prompted when empty)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Admin password (prompted when empty)")
}
