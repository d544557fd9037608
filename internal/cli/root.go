// Package cli implements pedidosctl, a terminal client for the pedidos API.
package cli

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sangkips/pedidos-api/pkg/pedidosclient"
)

const defaultAPIURL = "http://localhost:8080/api/v1"

// app carries what every subcommand needs
type app struct {
	v       *viper.Viper
	out     io.Writer
	timeout time.Duration
}

func (a *app) client() (*pedidosclient.Client, error) {
	base := strings.TrimSpace(a.v.GetString("api_url"))
	if base == "" {
		return nil, errors.New("api url is empty; set --api-url or PEDIDOS_API_URL")
	}
	return pedidosclient.New(base, pedidosclient.WithToken(a.v.GetString("token"))), nil
}

func (a *app) authedClient() (*pedidosclient.Client, error) {
	c, err := a.client()
	if err != nil {
		return nil, err
	}
	if c.Token() == "" {
		return nil, errors.New("not logged in; run 'pedidosctl login' and export PEDIDOS_TOKEN")
	}
	return c, nil
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.timeout)
}

func (a *app) printer() (*printer, error) {
	return newPrinter(a.out, a.v.GetString("output"))
}

// NewRootCommand builds the pedidosctl command tree writing to out
func NewRootCommand(out io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out, timeout: 30 * time.Second}
	a.v.SetEnvPrefix("PEDIDOS")
	a.v.AutomaticEnv()
	a.v.SetDefault("api_url", defaultAPIURL)
	a.v.SetDefault("output", "text")

	root := &cobra.Command{
		Use:           "pedidosctl",
		Short:         "Manage orders, receipts and summaries of the pedidos API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.String("api-url", defaultAPIURL, "API base URL (env PEDIDOS_API_URL)")
	flags.String("token", "", "bearer token (env PEDIDOS_TOKEN)")
	flags.StringP("output", "o", "text", "output format: text, json or yaml")
	flags.DurationVar(&a.timeout, "timeout", 30*time.Second, "request timeout")
	_ = a.v.BindPFlag("api_url", flags.Lookup("api-url"))
	_ = a.v.BindPFlag("token", flags.Lookup("token"))
	_ = a.v.BindPFlag("output", flags.Lookup("output"))

	root.AddCommand(
		newLoginCommand(a),
		newOrdersCommand(a),
		newReceiptCommand(a),
		newSummaryCommand(a),
		newProfitCommand(a),
	)
	return root
}
