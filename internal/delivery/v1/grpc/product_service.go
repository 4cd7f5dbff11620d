package grpc

import (
	"context"
	"strings"

	"github.com/DRSN-tech/go-marketplace/internal/usecase"
	"github.com/DRSN-tech/go-marketplace/pkg/e"
	"github.com/DRSN-tech/go-marketplace/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// CatalogServiceName — полное имя сервиса каталога для внутренних потребителей.
const CatalogServiceName = "marketplace.v1.CatalogService"

// CatalogServer — сервис каталога. Сообщения описаны well-known типами protobuf,
// поэтому отдельный .proto контракт не нужен.
type CatalogServer interface {
	GetProduct(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
	GetLibrary(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error)
}

type ProductService struct {
	prUC   usecase.ProductUC
	accUC  usecase.AccountUC
	logger logger.Logger
}

func NewProductService(prUC usecase.ProductUC, accUC usecase.AccountUC, logger logger.Logger) *ProductService {
	return &ProductService{prUC: prUC, accUC: accUC, logger: logger}
}

// GetProduct возвращает активный товар по slug.
func (g *ProductService) GetProduct(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	const op = "grpc.GetProduct"

	slug := strings.TrimSpace(req.GetValue())
	if slug == "" {
		return nil, GRPCErrorResponse(e.Wrap(op, e.ErrStatusBadRequest))
	}

	product, err := g.prUC.GetProduct(ctx, slug)
	if err != nil {
		g.logger.Warnf("%s: %v", op, err)
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	res, err := toGRPCProduct(product)
	if err != nil {
		g.logger.Errorf(e.Wrap(op, err), "%s", op)
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	return res, nil
}

// GetLibrary возвращает товары, доступные аккаунту.
func (g *ProductService) GetLibrary(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	const op = "grpc.GetLibrary"

	if req.GetValue() <= 0 {
		return nil, GRPCErrorResponse(e.Wrap(op, e.ErrStatusBadRequest))
	}

	products, err := g.accUC.GetLibrary(ctx, req.GetValue())
	if err != nil {
		g.logger.Warnf("%s: %v", op, err)
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	res, err := toArrGRPCProduct(products)
	if err != nil {
		g.logger.Errorf(e.Wrap(op, err), "%s", op)
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	return res, nil
}

func getProductHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).GetProduct(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + CatalogServiceName + "/GetProduct"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CatalogServer).GetProduct(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func getLibraryHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.Int64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).GetLibrary(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + CatalogServiceName + "/GetLibrary"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CatalogServer).GetLibrary(ctx, req.(*wrapperspb.Int64Value))
	}
	return interceptor(ctx, in, info, handler)
}

var catalogServiceDesc = grpc.ServiceDesc{
	ServiceName: CatalogServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetProduct", Handler: getProductHandler},
		{MethodName: "GetLibrary", Handler: getLibraryHandler},
	},
	Streams: []grpc.StreamDesc{},
}
