/*
Package pncp crawls the PNCP public consultation API. The crawl walks a fixed
modality enumeration; each modality is paged sequentially over a rolling date
window with a bounded retry per page request.
*/
package pncp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/licitaware/pncpwatch/internal/config"
	"github.com/licitaware/pncpwatch/internal/types"
)

// ErrRetriesExhausted marks a page request that failed through the whole retry
// budget. It abandons the current modality's crawl, not the run.
var ErrRetriesExhausted = errors.New("page request retries exhausted")

// Modality is one procurement method in the fixed crawl enumeration.
type Modality struct {
	Code int
	Name string
}

// Modalities is the fixed set of procurement methods crawled per run, in
// crawl order.
var Modalities = []Modality{
	{1, "Concorrência"},
	{2, "Tomada de Preços"},
	{3, "Convite"},
	{6, "Pregão"},
	{7, "Dispensa"},
	{8, "Inexigibilidade"},
	{9, "RDC"},
}

// ModalityName resolves a modality code to its display name.
func ModalityName(code int) string {
	for _, m := range Modalities {
		if m.Code == code {
			return m.Name
		}
	}
	return fmt.Sprintf("Modalidade %d", code)
}

// PortalLink returns the public portal URL for a notice id.
func PortalLink(noticeID string) string {
	return "https://pncp.gov.br/app/editais/" + noticeID
}

// Client fetches notice pages from the consultation endpoint.
type Client struct {
	cfg    config.FeedConfig
	http   *http.Client
	logger *zap.SugaredLogger
}

// NewClient builds a crawler over the configured feed endpoint.
func NewClient(cfg config.FeedConfig, logger *zap.SugaredLogger) *Client {
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

type feedPage struct {
	Data       []noticeRecord `json:"data"`
	TotalPages int            `json:"totalPaginas"`
}

type noticeRecord struct {
	NumeroControlePNCP       string          `json:"numeroControlePNCP"`
	ObjetoCompra             string          `json:"objetoCompra"`
	ValorTotalEstimado       json.RawMessage `json:"valorTotalEstimado"`
	DataPublicacaoPNCP       string          `json:"dataPublicacaoPncp"`
	DataEncerramentoProposta string          `json:"dataEncerramentoProposta"`
	LinkSistemaOrigem        string          `json:"linkSistemaOrigem"`
	UnidadeOrgao             struct {
		UFSigla string `json:"ufSigla"`
	} `json:"unidadeOrgao"`
	OrgaoEntidade struct {
		RazaoSocial string `json:"razaoSocial"`
	} `json:"orgaoEntidade"`
}

// FetchWindow crawls one modality across the [from, to] date window, starting
// at page 1 on every call. It stops on an empty page, on reaching the
// server-declared page total, or on the configured page cap.
func (c *Client) FetchWindow(ctx context.Context, modalityCode int, from, to time.Time) ([]types.Notice, error) {
	var notices []types.Notice

	for pageNum := 1; pageNum <= c.cfg.MaxPages; pageNum++ {
		page, err := c.fetchPage(ctx, modalityCode, pageNum, from, to)
		if err != nil {
			return notices, err
		}
		if len(page.Data) == 0 {
			break
		}

		for _, rec := range page.Data {
			notices = append(notices, rec.toNotice(modalityCode))
		}

		if page.TotalPages > 0 && pageNum >= page.TotalPages {
			break
		}
	}

	return notices, nil
}

// fetchPage requests a single page, retrying transient failures up to the
// configured budget with a fixed inter-attempt delay.
func (c *Client) fetchPage(ctx context.Context, modalityCode, pageNum int, from, to time.Time) (*feedPage, error) {
	var lastErr error

	for attempt := 1; attempt <= c.cfg.RetryAttempts; attempt++ {
		page, retryable, err := c.requestPage(ctx, modalityCode, pageNum, from, to)
		if err == nil {
			return page, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err

		c.logger.Warnw("page request failed",
			"modality", modalityCode,
			"page", pageNum,
			"attempt", attempt,
			"error", err)

		if attempt < c.cfg.RetryAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.cfg.RetryDelay):
			}
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, c.cfg.RetryAttempts, lastErr)
}

func (c *Client) requestPage(ctx context.Context, modalityCode, pageNum int, from, to time.Time) (page *feedPage, retryable bool, err error) {
	params := url.Values{}
	params.Set("pagina", strconv.Itoa(pageNum))
	params.Set("tamanhoPagina", strconv.Itoa(c.cfg.PageSize))
	params.Set("codigoModalidadeContratacao", strconv.Itoa(modalityCode))
	params.Set("dataInicial", from.Format("20060102"))
	params.Set("dataFinal", to.Format("20060102"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build page request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "pncpwatch/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("page request failed: %w", err)
	}
	defer resp.Body.Close()

	// The API answers 204 when the window holds nothing for this modality.
	if resp.StatusCode == http.StatusNoContent {
		return &feedPage{}, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, true, fmt.Errorf("received status %d from feed", resp.StatusCode)
	}

	var decoded feedPage
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, true, fmt.Errorf("failed to decode feed page: %w", err)
	}
	return &decoded, false, nil
}

func (r noticeRecord) toNotice(modalityCode int) types.Notice {
	return types.Notice{
		ID:             r.NumeroControlePNCP,
		Description:    r.ObjetoCompra,
		EstimatedValue: parseValue(r.ValorTotalEstimado),
		RegionCode:     r.UnidadeOrgao.UFSigla,
		OrgName:        r.OrgaoEntidade.RazaoSocial,
		PublishedAt:    parseTimestamp(r.DataPublicacaoPNCP),
		Deadline:       parseTimestamp(r.DataEncerramentoProposta),
		OriginLink:     r.LinkSistemaOrigem,
		ModalityCode:   modalityCode,
	}
}

// parseValue tolerates numbers, quoted numbers and null; anything unparsable
// counts as zero so the notice still reaches the matcher.
func parseValue(raw json.RawMessage) float64 {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0
	}
	s = strings.Trim(s, `"`)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTimestamp returns nil for blank or unparsable dates; downstream renders
// those as an empty date and an empty urgency label.
func parseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
