package pb

import (
	"context"

	"google.golang.org/grpc"
)

const InventoryCheckStockMethod = "/inventory.v1.Inventory/CheckStock"

type CheckStockRequest struct {
	SkuCodes []string `json:"sku_codes"`
}

type StockStatus struct {
	SkuCode string `json:"sku_code"`
	InStock bool   `json:"in_stock"`
}

type CheckStockResponse struct {
	Items []*StockStatus `json:"items"`
}

type InventoryServer interface {
	CheckStock(context.Context, *CheckStockRequest) (*CheckStockResponse, error)
}

func RegisterInventoryServer(s grpc.ServiceRegistrar, srv InventoryServer) {
	s.RegisterService(&inventoryServiceDesc, srv)
}

var inventoryServiceDesc = grpc.ServiceDesc{
	ServiceName: "inventory.v1.Inventory",
	HandlerType: (*InventoryServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CheckStock", Handler: inventoryCheckStockHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "inventory.v1",
}

func inventoryCheckStockHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CheckStockRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InventoryServer).CheckStock(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: InventoryCheckStockMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(InventoryServer).CheckStock(ctx, req.(*CheckStockRequest))
	}
	return interceptor(ctx, in, info, handler)
}

type InventoryClient struct {
	cc grpc.ClientConnInterface
}

func NewInventoryClient(cc grpc.ClientConnInterface) *InventoryClient {
	return &InventoryClient{cc: cc}
}

func (c *InventoryClient) CheckStock(ctx context.Context, in *CheckStockRequest, opts ...grpc.CallOption) (*CheckStockResponse, error) {
	out := new(CheckStockResponse)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := c.cc.Invoke(ctx, InventoryCheckStockMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
