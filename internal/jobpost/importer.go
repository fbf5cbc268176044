package jobpost

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/proposal-writer/internal/logging"
	"github.com/jonathan/proposal-writer/internal/types"
)

// Importer turns a job posting link into a title and description.
type Importer struct {
	opts   *Options
	logger *zap.Logger
	render Renderer
}

// NewImporter creates an Importer. With opts.UseBrowser set, short pages
// are re-rendered in a headless browser.
func NewImporter(opts *Options, logger *zap.Logger) *Importer {
	if opts == nil {
		opts = DefaultOptions()
	}
	logger = logging.OrNop(logger)
	imp := &Importer{opts: opts, logger: logger}
	if opts.UseBrowser {
		imp.render = ChromeRenderer(logger, opts)
	}
	return imp
}

// WithRenderer replaces the browser renderer. A nil fn disables rendering.
func (i *Importer) WithRenderer(fn Renderer) *Importer {
	i.render = fn
	return i
}

// Import fetches urlStr and extracts the posting.
func (i *Importer) Import(ctx context.Context, urlStr string) (*types.ImportedJob, error) {
	u, err := ValidateURL(urlStr)
	if err != nil {
		return nil, err
	}
	if err := newAddressGuard(i.opts).checkHost(ctx, u.Hostname()); err != nil {
		return nil, &Error{URL: urlStr, Message: "host not allowed", Cause: err}
	}
	platform := DetectPlatform(urlStr)
	log := i.logger.With(zap.String("url", urlStr), zap.String("platform", string(platform)))

	html := ""
	page, err := FetchPage(ctx, urlStr, i.opts)
	switch {
	case err == nil:
		html = page.HTML
	case i.render == nil:
		return nil, err
	default:
		log.Debug("http fetch failed, trying browser", zap.Error(err))
	}

	posting, parseErr := ParsePosting(html, platform)
	if parseErr != nil {
		return nil, parseErr
	}

	if i.render != nil && needsRendering(posting.Description) {
		rendered, renderErr := i.render(ctx, urlStr, i.opts.Timeout)
		if renderErr != nil {
			log.Warn("browser rendering failed", zap.Error(renderErr))
			if err != nil {
				return nil, err
			}
		} else if posting, parseErr = ParsePosting(rendered, platform); parseErr != nil {
			return nil, parseErr
		}
	}
	title, description := posting.Title, posting.Description

	if strings.TrimSpace(description) == "" {
		return nil, &Error{URL: urlStr, Message: "no job description found on page"}
	}

	log.Info("imported job posting",
		zap.String("title", logging.TruncateForLog(title, 80)),
		zap.Int("description_length", len(description)))

	return &types.ImportedJob{
		JobTitle:       title,
		JobDescription: description,
		Platform:       platform,
		JobLink:        urlStr,
	}, nil
}
