package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// stockPricePlaceholder stands in for a real market data lookup.
const stockPricePlaceholder = "$198.53 USD"

// StockPriceTool implements get_stock_price.
type StockPriceTool struct{}

func NewStockPriceTool() *StockPriceTool { return &StockPriceTool{} }

func (t *StockPriceTool) Name() string { return "get_stock_price" }

func (t *StockPriceTool) Description() string {
	return "The get_stock_price tool retrieves the current price of a single stock by its ticker symbol"
}

func (t *StockPriceTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"symbol": {"type": "string", "description": "The ticker symbol of the stock to retrieve"}
		},
		"required": ["symbol"]
	}`)
}

func (t *StockPriceTool) Execute(_ context.Context, input json.RawMessage) (string, error) {
	var args struct {
		Symbol string `json:"symbol"`
	}
	if err := DecodeArgs(input, &args); err != nil {
		return "", err
	}
	if strings.TrimSpace(args.Symbol) == "" {
		return "", fmt.Errorf("%w: stock symbol is required", ErrInvalidArgument)
	}
	return stockPricePlaceholder, nil
}
