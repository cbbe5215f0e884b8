package handler

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/order-fulfillment/internal/adapter/handler/pb"
	"github.com/rl1809/order-fulfillment/internal/core/service"
)

type GRPCHandler struct {
	pb.UnimplementedOrderServer
	orderService *service.OrderService
}

func NewGRPCHandler(orderService *service.OrderService) *GRPCHandler {
	return &GRPCHandler{orderService: orderService}
}

func (h *GRPCHandler) PlaceOrder(ctx context.Context, req *pb.PlaceOrderRequest) (*pb.PlaceOrderResponse, error) {
	items := make([]service.LineItemRequest, 0, len(req.GetItems()))
	for i, it := range req.GetItems() {
		if it == nil {
			return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("%s: line %d is empty", ReasonInvalidRequest, i))
		}
		price, err := decimal.NewFromString(it.UnitPrice)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("%s: line %d has an invalid price", ReasonInvalidRequest, i))
		}
		items = append(items, service.LineItemRequest{
			SKUCode:   it.SkuCode,
			UnitPrice: price,
			Quantity:  int(it.Quantity),
		})
	}

	order, err := h.orderService.PlaceOrder(ctx, req.GetRequestId(), items)
	if err != nil {
		f := classify(err)
		return nil, status.Error(f.grpcCode, f.reason)
	}

	return &pb.PlaceOrderResponse{OrderNumber: order.OrderNumber}, nil
}
