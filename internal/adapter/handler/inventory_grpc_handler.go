package handler

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/order-fulfillment/internal/adapter/handler/pb"
	"github.com/rl1809/order-fulfillment/internal/core/service"
)

type InventoryGRPCHandler struct {
	inventoryService *service.InventoryService
}

func NewInventoryGRPCHandler(inventoryService *service.InventoryService) *InventoryGRPCHandler {
	return &InventoryGRPCHandler{inventoryService: inventoryService}
}

func (h *InventoryGRPCHandler) CheckStock(ctx context.Context, req *pb.CheckStockRequest) (*pb.CheckStockResponse, error) {
	availability, err := h.inventoryService.CheckStock(ctx, req.SkuCodes)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		log.Error().Err(err).Msg("check stock failed")
		return nil, status.Error(codes.Internal, "check stock failed")
	}

	resp := &pb.CheckStockResponse{Items: make([]*pb.StockStatus, len(availability))}
	for i, a := range availability {
		resp.Items[i] = &pb.StockStatus{SkuCode: a.SKUCode, InStock: a.InStock}
	}
	return resp, nil
}
