package common

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mcptools/mcp-gsuite/internal/instrumentation"
	"github.com/mcptools/mcp-gsuite/internal/server"
)

// toolHandlerFunc matches the handler signature the MCP server expects.
// Kept unnamed in the exported signatures so the wrapped handler stays
// assignable to the server's own handler type.
type toolHandlerFunc = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandler wraps a tool handler with a tool span, metrics and
// audit logging.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(toolName string, sc *server.ServerContext, handler toolHandlerFunc) toolHandlerFunc {
	return instrumented(toolName, "", "", sc, handler)
}

// InstrumentedToolHandlerWithService is like InstrumentedToolHandler but also
// records Google API operation metrics and a client span for the given
// service and operation.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandlerWithService("my_tool", "gmail", "list", sc, handler))
func InstrumentedToolHandlerWithService(toolName, serviceName, operation string, sc *server.ServerContext, handler toolHandlerFunc) toolHandlerFunc {
	return instrumented(toolName, serviceName, operation, sc, handler)
}

func instrumented(toolName, serviceName, operation string, sc *server.ServerContext, handler toolHandlerFunc) toolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		auditLogger := sc.Audit()

		args := request.GetArguments()
		userID, _ := args[UserIDArg].(string)

		var spanAttrs []attribute.KeyValue
		if userID != "" {
			spanAttrs = append(spanAttrs, attribute.String(instrumentation.SpanAttrAccount, userID))
		}
		ctx, span := instrumentation.StartToolSpan(ctx, toolName, spanAttrs...)
		defer span.End()

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx)
		if serviceName != "" {
			invocation.WithService(serviceName, operation)
		}
		if userID != "" {
			invocation.WithUser(userID)
		}

		callCtx := ctx
		var apiSpan trace.Span
		if serviceName != "" {
			callCtx, apiSpan = instrumentation.StartGoogleAPISpan(ctx, serviceName, operation)
		}

		result, err := handler(callCtx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		if err != nil || (result != nil && result.IsError) {
			status = instrumentation.StatusError
			invocation.Complete(false, err)
			instrumentation.SetSpanError(span, err)
			if apiSpan != nil {
				instrumentation.SetSpanError(apiSpan, err)
			}
		} else {
			invocation.Complete(true, nil)
			instrumentation.SetSpanSuccess(span)
			if apiSpan != nil {
				instrumentation.SetSpanSuccess(apiSpan)
			}
		}
		if apiSpan != nil {
			apiSpan.End()
		}

		if metrics != nil {
			metrics.RecordToolInvocation(ctx, toolName, status, userID, duration)
			if serviceName != "" {
				metrics.RecordGoogleAPIOperation(ctx, serviceName, operation, status, duration)
			}
		}
		if auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}

		return result, err
	}
}
