package grpc

import (
	"errors"

	"github.com/DRSN-tech/go-marketplace/internal/domain"
	"github.com/DRSN-tech/go-marketplace/pkg/e"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func GRPCErrorResponse(err error) error {
	switch {
	case errors.Is(err, e.ErrProductNotFound):
		return status.Error(codes.NotFound, e.ErrProductNotFound.Error())
	case errors.Is(err, e.ErrLibraryNotFound):
		return status.Error(codes.NotFound, e.ErrLibraryNotFound.Error())
	case errors.Is(err, e.ErrStatusBadRequest):
		return status.Error(codes.InvalidArgument, e.ErrStatusBadRequest.Error())
	default:
		return status.Error(codes.Internal, e.ErrInternalServerError.Error())
	}
}

func toGRPCProduct(p *domain.Product) (*structpb.Struct, error) {
	fields := map[string]any{
		"id":        p.ID,
		"owner_id":  p.OwnerID,
		"slug":      p.Slug,
		"name":      p.Name,
		"price":     p.Price,
		"is_active": p.IsActive,
	}
	if p.ContentURL != nil {
		fields["content_url"] = *p.ContentURL
	}
	if p.CoverKey != nil {
		fields["cover_key"] = *p.CoverKey
	}

	return structpb.NewStruct(fields)
}

func toArrGRPCProduct(prs []domain.Product) (*structpb.Struct, error) {
	items := make([]any, 0, len(prs))
	for i := range prs {
		p, err := toGRPCProduct(&prs[i])
		if err != nil {
			return nil, err
		}
		items = append(items, p.AsMap())
	}

	return structpb.NewStruct(map[string]any{"products": items})
}
