package client

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/rl1809/order-fulfillment/internal/adapter/handler/pb"
	"github.com/rl1809/order-fulfillment/internal/core/domain"
	"github.com/rl1809/order-fulfillment/internal/port"
)

// InventoryGRPCClient queries inventory.v1.Inventory/CheckStock once per call.
type InventoryGRPCClient struct {
	conn    *grpc.ClientConn
	client  *pb.InventoryClient
	timeout time.Duration
}

// NewInventoryGRPCClient creates a lazily connecting client; extra dial
// options are appended after insecure transport credentials.
func NewInventoryGRPCClient(addr string, timeout time.Duration, opts ...grpc.DialOption) (*InventoryGRPCClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("create inventory grpc client: %w", err)
	}

	return &InventoryGRPCClient{
		conn:    conn,
		client:  pb.NewInventoryClient(conn),
		timeout: timeout,
	}, nil
}

func (c *InventoryGRPCClient) CheckStock(ctx context.Context, skuCodes []string) (map[string]bool, error) {
	codes := domain.DistinctSKUCodes(skuCodes)
	if len(codes) == 0 {
		return nil, errNoSKUCodes
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CheckStock(ctx, &pb.CheckStockRequest{SkuCodes: codes})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", port.ErrDependencyUnavailable, err)
	}

	return collect(codes, resp.Items, func(it *pb.StockStatus) (string, bool) {
		if it == nil {
			return "", false
		}
		return it.SkuCode, it.InStock
	}), nil
}

func (c *InventoryGRPCClient) Close() error {
	return c.conn.Close()
}
