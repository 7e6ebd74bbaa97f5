package infrastructure

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/go-arrower/geogate/contexts/access/internal/domain"
	"github.com/go-arrower/geogate/secret"
)

const DefaultTelegramURL = "https://api.telegram.org"

// NewTelegramNotifier returns a Notifier sending messages via the Telegram bot api into chatID.
// If client is nil, http.DefaultClient is used.
func NewTelegramNotifier(apiURL string, token secret.Secret, chatID string, client *http.Client) *TelegramNotifier {
	if apiURL == "" {
		apiURL = DefaultTelegramURL
	}

	if client == nil {
		client = http.DefaultClient
	}

	return &TelegramNotifier{
		client: client,
		apiURL: strings.TrimSuffix(apiURL, "/"),
		token:  token,
		chatID: chatID,
	}
}

type TelegramNotifier struct {
	client *http.Client
	apiURL string
	token  secret.Secret
	chatID string
}

var _ domain.Notifier = (*TelegramNotifier)(nil)

type (
	sendMessageRequest struct {
		ChatID string `json:"chat_id"`
		Text   string `json:"text"`
	}

	sendMessageResponse struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
)

func (n *TelegramNotifier) Notify(ctx context.Context, text string) error {
	body, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(sendMessageRequest{
		ChatID: n.chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNotificationFailed, err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiURL, n.token.Secret())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		// the url contains the token, so the error is not wrapped.
		return fmt.Errorf("%w: could not create request", domain.ErrNotificationFailed)
	}

	req.Header.Set("Content-Type", "application/json")

	res, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: could not send message: %v", domain.ErrNotificationFailed, redact(err, n.token))
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%w: could not read body: %v", domain.ErrNotificationFailed, err)
	}

	answer := sendMessageResponse{}
	_ = jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(resBody, &answer)

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: bot api answered with status %d: %s",
			domain.ErrNotificationFailed, res.StatusCode, answer.Description)
	}

	if !answer.OK {
		return fmt.Errorf("%w: bot api did not confirm the message: %s", domain.ErrNotificationFailed, answer.Description)
	}

	return nil
}

// redact removes the token from err, as the http client puts the full url into its errors.
func redact(err error, token secret.Secret) string {
	if token.IsEmpty() {
		return err.Error()
	}

	return strings.ReplaceAll(err.Error(), token.Secret(), token.String())
}

// NoopNotifier drops all messages.
type NoopNotifier struct{}

var _ domain.Notifier = NoopNotifier{}

func (NoopNotifier) Notify(context.Context, string) error { return nil }
