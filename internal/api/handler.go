package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/graph-gophers/graphql-go"
	gqlerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/labstack/echo/v4"
)

// graphqlRequest is the body of a GraphQL-over-HTTP request.
type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler serves GraphQL over HTTP and hands websocket upgrades to the transport.
type Handler struct {
	exec      Executor
	transport *Transport
	logger    *slog.Logger
}

// NewHandler creates a new GraphQL handler.
func NewHandler(exec Executor, transport *Transport) *Handler {
	return &Handler{
		exec:      exec,
		transport: transport,
		logger:    slog.Default().With("component", "api.handler"),
	}
}

// GraphQLPost executes a query or mutation sent as JSON.
func (h *Handler) GraphQLPost(c echo.Context) error {
	var req graphqlRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return h.badRequest(c, "request body must be a JSON GraphQL request")
	}
	return h.execute(c, req)
}

// GraphQLGet upgrades websocket requests and otherwise executes the query from the URL.
// Mutations are refused with 405.
func (h *Handler) GraphQLGet(c echo.Context) error {
	if isWebSocketUpgrade(c.Request()) {
		return h.transport.Serve(c)
	}

	req := graphqlRequest{
		Query:         c.QueryParam("query"),
		OperationName: c.QueryParam("operationName"),
	}
	if raw := c.QueryParam("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
			return h.badRequest(c, "variables must be a JSON object")
		}
	}
	if isMutation(req.Query, req.OperationName) {
		c.Response().Header().Set(echo.HeaderAllow, http.MethodPost)
		return c.JSON(http.StatusMethodNotAllowed, &graphql.Response{
			Errors: []*gqlerrors.QueryError{gqlerrors.Errorf("mutations are only allowed over POST")},
		})
	}
	return h.execute(c, req)
}

func (h *Handler) execute(c echo.Context, req graphqlRequest) error {
	if strings.TrimSpace(req.Query) == "" {
		return h.badRequest(c, "query is required")
	}

	resp := h.exec.Exec(c.Request().Context(), req.Query, req.OperationName, req.Variables)
	if len(resp.Errors) > 0 {
		h.logger.Debug("GraphQL operation returned errors", "operation", req.OperationName, "errors", len(resp.Errors))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, &graphql.Response{
		Errors: []*gqlerrors.QueryError{gqlerrors.Errorf("%s", message)},
	})
}

func isWebSocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get(echo.HeaderUpgrade), "websocket")
}
