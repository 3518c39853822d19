package main

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/di"
	"storefront/internal/usecase"
)

// catalogctl list "category=clothes&sort=price_ascending&page=2"
var listCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "Run the product listing for a query string and print the JSON result",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	raw := ""
	if len(args) == 1 {
		raw = strings.TrimPrefix(strings.TrimSpace(args[0]), "?")
	}
	// 壊れたクエリでも読めた分は使う（一覧は不正値を既定値で扱う）
	params, _ := url.ParseQuery(raw)

	c, err := di.NewContainer(cfg, zap.NewNop(), nil)
	if err != nil {
		return err
	}

	out, err := c.Products.ListProducts(cmd.Context(), usecase.ListProductsInput{
		Path:   "/products",
		Params: params,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
