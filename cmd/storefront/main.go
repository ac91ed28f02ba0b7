package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "storefront:", err)
		os.Exit(1)
	}
}

func defaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".storefront"
	}
	return filepath.Join(dir, "storefront")
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "storefront",
		Usage: "shop the storefront API from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Usage:   "base URL of the storefront API",
				Value:   "http://localhost:8080",
				EnvVars: []string{"STOREFRONT_API"},
			},
			&cli.StringFlag{
				Name:    "state-dir",
				Usage:   "directory holding the cart, favorites and session",
				Value:   defaultStateDir(),
				EnvVars: []string{"STOREFRONT_STATE_DIR"},
			},
		},
		Commands: []*cli.Command{
			registerCommand(),
			loginCommand(),
			logoutCommand(),
			whoamiCommand(),
			productsCommand(),
			categoriesCommand(),
			cartCommand(),
			favoritesCommand(),
			checkoutCommand(),
			ordersCommand(),
			adminCommand(),
		},
	}
}
