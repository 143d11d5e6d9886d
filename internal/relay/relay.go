// Package relay hands an uploaded contract to the external analysis
// workflow engine. The engine works asynchronously: this POST only starts
// the run, and the findings come back later through the results webhook.
package relay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gu00col/ross-sub000/internal/config"
)

// SecretHeader carries the shared secret that authenticates this service
// to the workflow engine.
const SecretHeader = "X-Workflow-Secret"

type Client struct {
	httpClient  *http.Client
	url         string
	secret      string
	callbackURL string
}

func New(cfg config.WorkflowConfig, callbackURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		url:         cfg.URL,
		secret:      cfg.Secret,
		callbackURL: callbackURL,
	}
}

// SubmitContract posts the PDF and its identifiers to the workflow engine
// as one multipart request.
func (c *Client) SubmitContract(ctx context.Context, contractID string, userID int64, filename string, pdf io.Reader) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, pdf); err != nil {
		return fmt.Errorf("copy pdf: %w", err)
	}
	fields := map[string]string{
		"contract_id":  contractID,
		"user_id":      strconv.FormatInt(userID, 10),
		"callback_url": c.callbackURL,
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(SecretHeader, c.secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("submit contract %s: %w", contractID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("workflow engine returned %d for contract %s", resp.StatusCode, contractID)
	}
	return nil
}
