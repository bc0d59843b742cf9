package douyin

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/lovezhqj/douyin-down/pkg/link"
	"github.com/lovezhqj/douyin-down/pkg/model"
)

const defaultDesc = "douyin video"

// Config controls resolution policy.
type Config struct {
	// DisableDemo surfaces a total extraction miss as an error. By default a
	// fixed placeholder record is substituted instead, so the caller-facing
	// flow stays non-empty under total upstream failure.
	DisableDemo bool `toml:"disable_demo"`
	// DemoURL is the placeholder media URL.
	DemoURL string `toml:"demo_url"`
	// DemoCover is the placeholder cover image URL.
	DemoCover string `toml:"demo_cover"`
	// DemoDesc is the placeholder description.
	DemoDesc string `toml:"demo_desc"`
}

func (c *Config) applyDefaults() {
	if c.DemoURL == "" {
		c.DemoURL = "https://www.w3schools.com/html/mov_bbb.mp4"
	}

	if c.DemoDesc == "" {
		c.DemoDesc = "sample video (upstream extraction unavailable)"
	}
}

// Pipeline orchestrates one resolution pass: short link resolution, the
// ordered strategy set, and domain normalization of the winning URL.
type Pipeline struct {
	resolver   *Resolver
	strategies []Strategy
	cfg        Config
}

func NewPipeline(cfg Config) *Pipeline {
	cfg.applyDefaults()

	return &Pipeline{
		resolver:   NewResolver(),
		strategies: DefaultStrategies(),
		cfg:        cfg,
	}
}

// Resolve turns free-form text containing a share link into a watermark-free
// media URL plus metadata. One call makes exactly one pass; strategy faults
// are logged and swallowed, only a missing video id surfaces as an error.
func (p *Pipeline) Resolve(ctx context.Context, rawInput string) (*model.VideoInfo, error) {
	input, err := link.ExtractURL(rawInput)
	if err != nil {
		// Callers may paste a bare path or an app-internal token; let the
		// resolver have a go at the raw text.
		input = strings.TrimSpace(rawInput)
	}

	if input == "" {
		return nil, model.ErrInputInvalid
	}

	res := p.resolver.Resolve(ctx, input)
	if res.ID == "" {
		return nil, errors.Wrapf(model.ErrIdentifierNotFound, "link %q", input)
	}

	logger := log.WithFields(log.Fields{"id": res.ID, "url": res.FinalURL})
	target := Target{ID: res.ID, PageURL: res.FinalURL}

	// A partial match may carry a description even when its media URL is
	// missing; keep it so a later, cruder strategy does not lose it.
	var desc string

	for _, strategy := range p.strategies {
		info, err := strategy.Attempt(ctx, target)
		if err != nil {
			logger.WithError(err).WithField("strategy", strategy.Name()).Debug("extraction attempt failed")
			continue
		}

		if info == nil {
			continue
		}

		if info.URL == "" {
			if desc == "" {
				desc = info.Desc
			}
			continue
		}

		if info.Desc == "" {
			info.Desc = desc
		}
		if info.Desc == "" {
			info.Desc = defaultDesc
		}

		info.URL = NormalizeURL(info.URL)

		logger.WithField("strategy", strategy.Name()).Info("resolved video")
		return info, nil
	}

	if p.cfg.DisableDemo {
		return nil, model.ErrAllStrategiesFailed
	}

	logger.Warn("all extraction strategies failed, returning demo placeholder")

	return &model.VideoInfo{
		URL:   p.cfg.DemoURL,
		Cover: p.cfg.DemoCover,
		Desc:  p.cfg.DemoDesc,
		Demo:  true,
	}, nil
}
