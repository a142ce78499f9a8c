package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// ShareServiceName is the fully-qualified name of the ShareService.
const ShareServiceName = "sharefare.v1.ShareService"

// Procedure paths, one per RPC.
const (
	ShareServiceCreateShareProcedure = "/" + ShareServiceName + "/CreateShare"
	ShareServiceGetShareProcedure    = "/" + ShareServiceName + "/GetShare"
	ShareServiceListSharesProcedure  = "/" + ShareServiceName + "/ListShares"
	ShareServiceUpdateShareProcedure = "/" + ShareServiceName + "/UpdateShare"
	ShareServiceDeleteShareProcedure = "/" + ShareServiceName + "/DeleteShare"
)

// ShareServiceHandler is implemented by the server side of ShareServiceName.
type ShareServiceHandler interface {
	CreateShare(context.Context, *connect.Request[CreateShareRequest]) (*connect.Response[CreateShareResponse], error)
	GetShare(context.Context, *connect.Request[GetShareRequest]) (*connect.Response[GetShareResponse], error)
	ListShares(context.Context, *connect.Request[ListSharesRequest]) (*connect.Response[ListSharesResponse], error)
	UpdateShare(context.Context, *connect.Request[UpdateShareRequest]) (*connect.Response[UpdateShareResponse], error)
	DeleteShare(context.Context, *connect.Request[DeleteShareRequest]) (*connect.Response[DeleteShareResponse], error)
}

// NewShareServiceHandler builds an HTTP handler for every ShareService procedure.
// It returns the path prefix to mount the handler on.
func NewShareServiceHandler(svc ShareServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(ShareServiceCreateShareProcedure, connect.NewUnaryHandler(ShareServiceCreateShareProcedure, svc.CreateShare, opts...))
	mux.Handle(ShareServiceGetShareProcedure, connect.NewUnaryHandler(ShareServiceGetShareProcedure, svc.GetShare, opts...))
	mux.Handle(ShareServiceListSharesProcedure, connect.NewUnaryHandler(ShareServiceListSharesProcedure, svc.ListShares, opts...))
	mux.Handle(ShareServiceUpdateShareProcedure, connect.NewUnaryHandler(ShareServiceUpdateShareProcedure, svc.UpdateShare, opts...))
	mux.Handle(ShareServiceDeleteShareProcedure, connect.NewUnaryHandler(ShareServiceDeleteShareProcedure, svc.DeleteShare, opts...))
	return "/" + ShareServiceName + "/", mux
}

// ShareServiceClient calls ShareServiceName over Connect.
type ShareServiceClient struct {
	createShare *connect.Client[CreateShareRequest, CreateShareResponse]
	getShare    *connect.Client[GetShareRequest, GetShareResponse]
	listShares  *connect.Client[ListSharesRequest, ListSharesResponse]
	updateShare *connect.Client[UpdateShareRequest, UpdateShareResponse]
	deleteShare *connect.Client[DeleteShareRequest, DeleteShareResponse]
}

// NewShareServiceClient creates a client for the service at baseURL (e.g., http://localhost:8080).
func NewShareServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ShareServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &ShareServiceClient{
		createShare: connect.NewClient[CreateShareRequest, CreateShareResponse](httpClient, baseURL+ShareServiceCreateShareProcedure, opts...),
		getShare:    connect.NewClient[GetShareRequest, GetShareResponse](httpClient, baseURL+ShareServiceGetShareProcedure, opts...),
		listShares:  connect.NewClient[ListSharesRequest, ListSharesResponse](httpClient, baseURL+ShareServiceListSharesProcedure, opts...),
		updateShare: connect.NewClient[UpdateShareRequest, UpdateShareResponse](httpClient, baseURL+ShareServiceUpdateShareProcedure, opts...),
		deleteShare: connect.NewClient[DeleteShareRequest, DeleteShareResponse](httpClient, baseURL+ShareServiceDeleteShareProcedure, opts...),
	}
}

func (c *ShareServiceClient) CreateShare(ctx context.Context, req *connect.Request[CreateShareRequest]) (*connect.Response[CreateShareResponse], error) {
	return c.createShare.CallUnary(ctx, req)
}

func (c *ShareServiceClient) GetShare(ctx context.Context, req *connect.Request[GetShareRequest]) (*connect.Response[GetShareResponse], error) {
	return c.getShare.CallUnary(ctx, req)
}

func (c *ShareServiceClient) ListShares(ctx context.Context, req *connect.Request[ListSharesRequest]) (*connect.Response[ListSharesResponse], error) {
	return c.listShares.CallUnary(ctx, req)
}

func (c *ShareServiceClient) UpdateShare(ctx context.Context, req *connect.Request[UpdateShareRequest]) (*connect.Response[UpdateShareResponse], error) {
	return c.updateShare.CallUnary(ctx, req)
}

func (c *ShareServiceClient) DeleteShare(ctx context.Context, req *connect.Request[DeleteShareRequest]) (*connect.Response[DeleteShareResponse], error) {
	return c.deleteShare.CallUnary(ctx, req)
}
