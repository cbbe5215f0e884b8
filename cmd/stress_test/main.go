package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/rl1809/order-fulfillment/internal/adapter/handler"
	"github.com/rl1809/order-fulfillment/internal/logging"
)

// Fires concurrent order placements for one SKU against a running order
// service. Stock is never reserved, so every request that passes the
// availability check is accepted.
func main() {
	orderURL := flag.String("order-url", "http://localhost:8080", "order service base URL")
	inventoryURL := flag.String("inventory-url", "http://localhost:8082", "inventory service base URL, used to reset stock")
	sku := flag.String("sku", "Lenovo Legion", "SKU to order")
	stock := flag.Int("stock", 20, "stock to set before the run, negative to keep the current value")
	requests := flag.Int("requests", 50, "number of concurrent orders")
	flag.Parse()

	logging.Setup("stress-test", "info", "console")
	httpClient := &http.Client{Timeout: 10 * time.Second}

	if *stock >= 0 {
		if err := setStock(httpClient, *inventoryURL, *sku, *stock); err != nil {
			log.Fatal().Err(err).Msg("failed to set stock")
		}
	}

	body, err := json.Marshal(handler.PlaceOrderHTTPRequest{Items: []handler.LineItemHTTP{
		{SKUCode: *sku, UnitPrice: decimal.RequireFromString("1299.00"), Quantity: 1},
	}})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to encode order")
	}

	var created, rejected, failed atomic.Int32
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < *requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			resp, err := httpClient.Post(*orderURL+"/api/order", "application/json", bytes.NewReader(body))
			if err != nil {
				failed.Add(1)
				return
			}
			resp.Body.Close()

			switch resp.StatusCode {
			case http.StatusCreated:
				created.Add(1)
			case http.StatusConflict:
				rejected.Add(1)
			default:
				failed.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("SKU:              %s\n", *sku)
	fmt.Printf("Stock:            %d\n", *stock)
	fmt.Printf("Total Requests:   %d\n", *requests)
	fmt.Printf("Created:          %d\n", created.Load())
	fmt.Printf("Out of stock:     %d\n", rejected.Load())
	fmt.Printf("Failed:           %d\n", failed.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	if *stock > 0 && int(created.Load()) > *stock {
		fmt.Printf("NOTE: %d orders accepted against a stock of %d\n", created.Load(), *stock)
	}
	if failed.Load() > 0 {
		os.Exit(1)
	}
}

func setStock(c *http.Client, baseURL, sku string, quantity int) error {
	body, err := json.Marshal(handler.SetStockHTTPRequest{Quantity: &quantity})
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPut, baseURL+"/api/inventory/"+url.PathEscape(sku), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("set stock: unexpected status %d", resp.StatusCode)
	}
	return nil
}
