package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/newwebie/admin-apontamentos/config"
)

// SharePointGateway reads and writes workbook files through the
// SharePoint REST API. Paths are server-relative, e.g.
// "Documentos/Operações/Apontamentos.xlsx".
type SharePointGateway struct {
	siteURL string
	token   string
	client  *http.Client
	logger  *zap.Logger
}

// NewSharePointGateway builds a gateway from configuration.
func NewSharePointGateway(cfg *config.SharePointConfig, logger *zap.Logger) *SharePointGateway {
	return &SharePointGateway{
		siteURL: strings.TrimRight(cfg.SiteURL, "/"),
		token:   cfg.AccessToken,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// Download fetches the whole file.
func (g *SharePointGateway) Download(ctx context.Context, filePath string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/_api/web/GetFileByServerRelativeUrl('%s')/$value",
		g.siteURL, escapePath(filePath))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building download request: %w", err)
	}
	g.decorate(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", filePath, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, classify(resp.StatusCode, filePath, body)
	}

	return body, nil
}

// Upload replaces the whole file. SharePoint's Files/add with
// overwrite=true is itself a full replacement, which keeps retried
// uploads idempotent.
func (g *SharePointGateway) Upload(ctx context.Context, filePath string, data []byte, overwrite bool) error {
	folder := path.Dir(filePath)
	name := path.Base(filePath)
	endpoint := fmt.Sprintf("%s/_api/web/GetFolderByServerRelativeUrl('%s')/Files/add(url='%s',overwrite=%t)",
		g.siteURL, escapePath(folder), escapePath(name), overwrite)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("building upload request: %w", err)
	}
	g.decorate(req)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("uploading %s: %w", filePath, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return classify(resp.StatusCode, filePath, body)
	}

	g.logger.Info("workbook uploaded", zap.String("path", filePath), zap.Int("bytes", len(data)))
	return nil
}

func (g *SharePointGateway) decorate(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+g.token)
	req.Header.Set("Accept", "application/json;odata=verbose")
}

// classify maps a SharePoint failure to the error taxonomy: 423 and
// lock-shaped 409/500 bodies are transient locks, the rest is fatal
// and carries the response body for diagnosis.
func classify(status int, filePath string, body []byte) error {
	if status == http.StatusLocked {
		return fmt.Errorf("%w: %s", ErrLocked, filePath)
	}
	msg := strings.ToLower(string(body))
	if (status == http.StatusConflict || status == http.StatusInternalServerError) &&
		(strings.Contains(msg, "spfilelockexception") || strings.Contains(msg, "locked")) {
		return fmt.Errorf("%w: %s", ErrLocked, filePath)
	}
	return fmt.Errorf("sharepoint returned %d for %s: %s", status, filePath, truncate(string(body), 300))
}

func escapePath(p string) string {
	// Single quotes would break the OData literal; percent-encode the
	// rest so accented folder names survive.
	escaped := url.PathEscape(p)
	escaped = strings.ReplaceAll(escaped, "%2F", "/")
	return strings.ReplaceAll(escaped, "'", "''")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
