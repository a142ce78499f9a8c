package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// FareServiceName is the fully-qualified name of the FareService.
const FareServiceName = "sharefare.v1.FareService"

// Procedure paths, one per RPC.
const (
	FareServiceCreateFareProcedure = "/" + FareServiceName + "/CreateFare"
	FareServiceGetFareProcedure    = "/" + FareServiceName + "/GetFare"
	FareServiceListFaresProcedure  = "/" + FareServiceName + "/ListFares"
	FareServiceUpdateFareProcedure = "/" + FareServiceName + "/UpdateFare"
	FareServiceDeleteFareProcedure = "/" + FareServiceName + "/DeleteFare"
)

// FareServiceHandler is implemented by the server side of FareServiceName.
type FareServiceHandler interface {
	CreateFare(context.Context, *connect.Request[CreateFareRequest]) (*connect.Response[CreateFareResponse], error)
	GetFare(context.Context, *connect.Request[GetFareRequest]) (*connect.Response[GetFareResponse], error)
	ListFares(context.Context, *connect.Request[ListFaresRequest]) (*connect.Response[ListFaresResponse], error)
	UpdateFare(context.Context, *connect.Request[UpdateFareRequest]) (*connect.Response[UpdateFareResponse], error)
	DeleteFare(context.Context, *connect.Request[DeleteFareRequest]) (*connect.Response[DeleteFareResponse], error)
}

// NewFareServiceHandler builds an HTTP handler for every FareService procedure.
// It returns the path prefix to mount the handler on.
func NewFareServiceHandler(svc FareServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(FareServiceCreateFareProcedure, connect.NewUnaryHandler(FareServiceCreateFareProcedure, svc.CreateFare, opts...))
	mux.Handle(FareServiceGetFareProcedure, connect.NewUnaryHandler(FareServiceGetFareProcedure, svc.GetFare, opts...))
	mux.Handle(FareServiceListFaresProcedure, connect.NewUnaryHandler(FareServiceListFaresProcedure, svc.ListFares, opts...))
	mux.Handle(FareServiceUpdateFareProcedure, connect.NewUnaryHandler(FareServiceUpdateFareProcedure, svc.UpdateFare, opts...))
	mux.Handle(FareServiceDeleteFareProcedure, connect.NewUnaryHandler(FareServiceDeleteFareProcedure, svc.DeleteFare, opts...))
	return "/" + FareServiceName + "/", mux
}

// FareServiceClient calls FareServiceName over Connect.
type FareServiceClient struct {
	createFare *connect.Client[CreateFareRequest, CreateFareResponse]
	getFare    *connect.Client[GetFareRequest, GetFareResponse]
	listFares  *connect.Client[ListFaresRequest, ListFaresResponse]
	updateFare *connect.Client[UpdateFareRequest, UpdateFareResponse]
	deleteFare *connect.Client[DeleteFareRequest, DeleteFareResponse]
}

// NewFareServiceClient creates a client for the service at baseURL (e.g., http://localhost:8080).
func NewFareServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *FareServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &FareServiceClient{
		createFare: connect.NewClient[CreateFareRequest, CreateFareResponse](httpClient, baseURL+FareServiceCreateFareProcedure, opts...),
		getFare:    connect.NewClient[GetFareRequest, GetFareResponse](httpClient, baseURL+FareServiceGetFareProcedure, opts...),
		listFares:  connect.NewClient[ListFaresRequest, ListFaresResponse](httpClient, baseURL+FareServiceListFaresProcedure, opts...),
		updateFare: connect.NewClient[UpdateFareRequest, UpdateFareResponse](httpClient, baseURL+FareServiceUpdateFareProcedure, opts...),
		deleteFare: connect.NewClient[DeleteFareRequest, DeleteFareResponse](httpClient, baseURL+FareServiceDeleteFareProcedure, opts...),
	}
}

func (c *FareServiceClient) CreateFare(ctx context.Context, req *connect.Request[CreateFareRequest]) (*connect.Response[CreateFareResponse], error) {
	return c.createFare.CallUnary(ctx, req)
}

func (c *FareServiceClient) GetFare(ctx context.Context, req *connect.Request[GetFareRequest]) (*connect.Response[GetFareResponse], error) {
	return c.getFare.CallUnary(ctx, req)
}

func (c *FareServiceClient) ListFares(ctx context.Context, req *connect.Request[ListFaresRequest]) (*connect.Response[ListFaresResponse], error) {
	return c.listFares.CallUnary(ctx, req)
}

func (c *FareServiceClient) UpdateFare(ctx context.Context, req *connect.Request[UpdateFareRequest]) (*connect.Response[UpdateFareResponse], error) {
	return c.updateFare.CallUnary(ctx, req)
}

func (c *FareServiceClient) DeleteFare(ctx context.Context, req *connect.Request[DeleteFareRequest]) (*connect.Response[DeleteFareResponse], error) {
	return c.deleteFare.CallUnary(ctx, req)
}
