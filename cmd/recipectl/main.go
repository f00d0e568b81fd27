package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Clinton-Cochrane/mobile-grocery/pkg/recipeclient"
)

var Version = "dev"

func main() {
	runMain(os.Args, os.Stdout, os.Exit)
}

func runMain(args []string, out io.Writer, exit func(int)) {
	if err := Execute(args[1:], out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exit(1)
	}
}

type globalFlags struct {
	api     string
	token   string
	timeout time.Duration
}

func (g *globalFlags) client() (*recipeclient.Client, error) {
	opts := []recipeclient.Option{recipeclient.WithTimeout(g.timeout)}
	if g.token != "" {
		opts = append(opts, recipeclient.WithToken(g.token))
	}
	return recipeclient.New(g.api, opts...)
}

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Execute builds the command tree and runs it with args, extracted for testing.
func Execute(args []string, out io.Writer) error {
	g := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:           "recipectl",
		Short:         "CLI client for the recipe service REST API",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&g.api, "api", "a", envOr("RECIPECTL_API", "http://localhost:8080"), "Recipe service base URL")
	rootCmd.PersistentFlags().StringVarP(&g.token, "token", "t", os.Getenv("RECIPECTL_TOKEN"), "Bearer token for mutations")
	rootCmd.PersistentFlags().DurationVar(&g.timeout, "timeout", 30*time.Second, "Request timeout")

	rootCmd.AddCommand(
		newListCmd(g, out),
		newGetCmd(g, out),
		newCreateCmd(g, out),
		newUpdateCmd(g, out),
		newDeleteCmd(g, out),
		newShoppingListCmd(g, out),
		newHealthCmd(g, out),
	)
	rootCmd.SetOut(out)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
