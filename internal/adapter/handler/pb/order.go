package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const OrderPlaceOrderMethod = "/order.v1.Order/PlaceOrder"

type LineItem struct {
	SkuCode   string `json:"sku_code"`
	UnitPrice string `json:"unit_price"`
	Quantity  int32  `json:"quantity"`
}

type PlaceOrderRequest struct {
	RequestId string      `json:"request_id,omitempty"`
	Items     []*LineItem `json:"items"`
}

type PlaceOrderResponse struct {
	OrderNumber string `json:"order_number"`
}

func (r *PlaceOrderRequest) GetRequestId() string {
	if r == nil {
		return ""
	}
	return r.RequestId
}

func (r *PlaceOrderRequest) GetItems() []*LineItem {
	if r == nil {
		return nil
	}
	return r.Items
}

type OrderServer interface {
	PlaceOrder(context.Context, *PlaceOrderRequest) (*PlaceOrderResponse, error)
}

// UnimplementedOrderServer can be embedded to satisfy OrderServer.
type UnimplementedOrderServer struct{}

func (UnimplementedOrderServer) PlaceOrder(context.Context, *PlaceOrderRequest) (*PlaceOrderResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PlaceOrder not implemented")
}

func RegisterOrderServer(s grpc.ServiceRegistrar, srv OrderServer) {
	s.RegisterService(&orderServiceDesc, srv)
}

var orderServiceDesc = grpc.ServiceDesc{
	ServiceName: "order.v1.Order",
	HandlerType: (*OrderServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "PlaceOrder", Handler: orderPlaceOrderHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "order.v1",
}

func orderPlaceOrderHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PlaceOrderRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OrderServer).PlaceOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: OrderPlaceOrderMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OrderServer).PlaceOrder(ctx, req.(*PlaceOrderRequest))
	}
	return interceptor(ctx, in, info, handler)
}

type OrderClient struct {
	cc grpc.ClientConnInterface
}

func NewOrderClient(cc grpc.ClientConnInterface) *OrderClient {
	return &OrderClient{cc: cc}
}

func (c *OrderClient) PlaceOrder(ctx context.Context, in *PlaceOrderRequest, opts ...grpc.CallOption) (*PlaceOrderResponse, error) {
	out := new(PlaceOrderResponse)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := c.cc.Invoke(ctx, OrderPlaceOrderMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
