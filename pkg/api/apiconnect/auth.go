package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/KamilKorczek/project-pizzeria/pkg/api"
)

const (
	// AuthServiceName is the fully-qualified name of the AuthService.
	AuthServiceName = "pizzeria.v1.AuthService"

	// AuthServiceLoginProcedure is the path of AuthService.Login.
	AuthServiceLoginProcedure = "/pizzeria.v1.AuthService/Login"
)

// AuthServiceHandler is implemented by the auth service.
type AuthServiceHandler interface {
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service implementation.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	login := connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, handlerOptions(opts))

	return "/" + AuthServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AuthServiceLoginProcedure:
			login.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// AuthServiceClient is a client for the auth service.
type AuthServiceClient interface {
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
}

// NewAuthServiceClient constructs a client for the auth service at baseURL.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &authServiceClient{
		login: connect.NewClient[api.LoginRequest, api.LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, clientOptions(opts)),
	}
}

type authServiceClient struct {
	login *connect.Client[api.LoginRequest, api.LoginResponse]
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}
