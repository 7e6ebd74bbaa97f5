package alog

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/afiskon/promtail-client/promtail"
)

const defaultLokiPushURL = "http://localhost:3100/api/prom/push"

type LokiHandlerOptions struct {
	Labels  map[string]string
	PushURL string
}

// NewLokiHandler use this handler only for local development!
//
// It ships the logs of a locally running gateway to a local loki instance,
// so you can query them in grafana the same way as in production,
// where the container runtime ships stdout to loki.
// If loki is not reachable on start, the handler drops records and
// keeps trying to connect in the background.
func NewLokiHandler(opt *LokiHandlerOptions) *LokiHandler {
	conf := getPromtailConfig(opt)
	client := getClient(conf)

	// generate json log by writing to local buffer with slog default json
	buf := &bytes.Buffer{}
	renderer := slog.NewJSONHandler(buf, &slog.HandlerOptions{
		Level:       LevelDebug, // allow all messages, as the level gets controlled by the gateHandler instead.
		AddSource:   false,
		ReplaceAttr: MapLogLevelsToName,
	})

	handler := &LokiHandler{
		shared:   &lokiConn{client: client, output: buf},
		renderer: renderer,
	}

	if client == nil {
		go retryLokiConnection(handler, conf)
	}

	return handler
}

func getPromtailConfig(opt *LokiHandlerOptions) promtail.ClientConfig {
	if opt == nil {
		opt = &LokiHandlerOptions{}
	}

	pushURL := opt.PushURL
	if pushURL == "" {
		pushURL = defaultLokiPushURL
	}

	labels := opt.Labels
	if len(labels) == 0 {
		labels = map[string]string{
			"geogate": "gateway",
			"client":  "geogate-loki",
		}
	}

	pairs := make([]string, 0, len(labels))
	for k, l := range labels {
		pairs = append(pairs, fmt.Sprintf("%s=%q", k, l))
	}

	return promtail.ClientConfig{
		PushURL:            pushURL,
		BatchWait:          1 * time.Second,
		BatchEntriesNumber: 1,
		SendLevel:          promtail.DEBUG,
		PrintLevel:         promtail.DISABLE,
		Labels:             "{" + strings.Join(pairs, ",") + "}",
	}
}

func retryLokiConnection(handler *LokiHandler, conf promtail.ClientConfig) {
	const lokiRetryInterval = 15 * time.Second

	t := time.NewTicker(lokiRetryInterval)
	defer t.Stop()

	for range t.C {
		client := getClient(conf)
		if client == nil {
			continue
		}

		handler.shared.mu.Lock()
		handler.shared.client = client
		handler.shared.mu.Unlock()

		return
	}
}

func getClient(conf promtail.ClientConfig) promtail.Client { //nolint:ireturn // promtail.NewClientX() only returns interface.
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, conf.PushURL, nil)
	if err != nil {
		return nil
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil
	}

	_ = res.Body.Close()

	client, _ := promtail.NewClientJson(conf) // promtail always returns a nil error.

	return client
}

type (
	LokiHandler struct {
		// shared is the same for all handlers derived via WithAttrs and WithGroup.
		shared   *lokiConn
		renderer slog.Handler
	}

	lokiConn struct {
		mu     sync.Mutex
		client promtail.Client
		output *bytes.Buffer
	}
)

var _ slog.Handler = (*LokiHandler)(nil)

func (l *LokiHandler) Handle(ctx context.Context, record slog.Record) error {
	l.shared.mu.Lock()
	defer l.shared.mu.Unlock()

	if l.shared.client == nil { // no loki instance is available => do not log.
		return nil
	}

	defer l.shared.output.Reset()

	err := l.renderer.Handle(ctx, record)
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	// query in grafana with: {geogate="gateway"} | json
	l.shared.client.Infof(strings.TrimSpace(l.shared.output.String()))

	return nil
}

func (l *LokiHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (l *LokiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LokiHandler{
		shared:   l.shared,
		renderer: l.renderer.WithAttrs(attrs),
	}
}

func (l *LokiHandler) WithGroup(name string) slog.Handler {
	return &LokiHandler{
		shared:   l.shared,
		renderer: l.renderer.WithGroup(name),
	}
}
