package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/wolfman30/swasthyasathi/internal/app/bootstrap"
	appconfig "github.com/wolfman30/swasthyasathi/internal/config"
	"github.com/wolfman30/swasthyasathi/internal/observability/metrics"
	"github.com/wolfman30/swasthyasathi/pkg/logging"
)

type responder interface {
	Respond(ctx context.Context, query string) string
}

type chatRequest struct {
	Query string `json:"query"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func main() {
	cfg := appconfig.Load()
	logger := logging.NewWithWriter(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	svc, closeDeps, err := bootstrap.BuildAssistant(context.Background(), cfg, logger, metrics.NewAssistantMetrics(nil))
	if err != nil {
		logger.Error("failed to build assistant", "error", err)
		os.Exit(1)
	}
	defer closeDeps()

	lambda.Start(func(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return handle(ctx, svc, evt)
	})
}

func handle(ctx context.Context, a responder, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := strings.ToUpper(strings.TrimSpace(evt.RequestContext.HTTP.Method))
	path := strings.TrimSpace(evt.RawPath)
	if path == "" {
		path = strings.TrimSpace(evt.RequestContext.HTTP.Path)
	}

	if path == "/health" || path == "/_health" {
		return jsonResponse(http.StatusOK, map[string]string{"status": "ok"}), nil
	}

	if path != "/v1/chat" {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusNotFound}, nil
	}
	if method != http.MethodPost {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusMethodNotAllowed}, nil
	}

	body, err := decodeBody(evt)
	if err != nil {
		return jsonResponse(http.StatusBadRequest, map[string]string{"error": "invalid body encoding"}), nil
	}
	var req chatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return jsonResponse(http.StatusBadRequest, map[string]string{"error": "invalid JSON body"}), nil
	}

	return jsonResponse(http.StatusOK, chatResponse{Reply: a.Respond(ctx, req.Query)}), nil
}

func jsonResponse(status int, payload any) events.APIGatewayV2HTTPResponse {
	body, err := json.Marshal(payload)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusInternalServerError}
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Body:       string(body),
		Headers:    map[string]string{"content-type": "application/json"},
	}
}

func decodeBody(evt events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if !evt.IsBase64Encoded {
		return []byte(evt.Body), nil
	}
	decoded, err := base64.StdEncoding.DecodeString(evt.Body)
	if err != nil {
		return nil, err
	}
	return decoded, nil
}
