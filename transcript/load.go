package transcript

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/lockstep-cli/lockstep/constant"
	"github.com/lockstep-cli/lockstep/filesystem"
	"github.com/lockstep-cli/lockstep/log"
	"github.com/lockstep-cli/lockstep/network"
	"github.com/lockstep-cli/lockstep/util"
)

// Options describes where entries live in the transcript markup.
type Options struct {
	Selector    string
	StartAttr   string
	SpeakerAttr string
}

// DefaultOptions matches entries rendered as <p data-start="12.5" data-speaker="...">.
func DefaultOptions() Options {
	return Options{
		Selector:    "[data-start]",
		StartAttr:   "data-start",
		SpeakerAttr: "data-speaker",
	}
}

// Load parses transcript markup and indexes every entry whose start time is a finite number.
func Load(r io.Reader, opts Options) (*Index, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse transcript: %w", err)
	}

	var (
		entries []Entry
		skipped int
	)

	doc.Find(opts.Selector).Each(func(order int, s *goquery.Selection) {
		raw, _ := s.Attr(opts.StartAttr)
		seconds, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			skipped++
			return
		}

		entries = append(entries, Entry{
			Seconds: seconds,
			Speaker: speakerOf(s, opts.SpeakerAttr),
			Text:    textOf(s),
			Order:   order,
		})
	})

	if skipped > 0 {
		log.Debugf("transcript: skipped %s without a numeric start", util.Quantify(skipped, "entry", "entries"))
	}

	index, err := NewIndex(entries)
	if err != nil {
		return nil, err
	}
	index.meta = extractMeta(doc)
	return index, nil
}

// speakerOf prefers the speaker attribute, then a nested .speaker element.
func speakerOf(s *goquery.Selection, attr string) string {
	if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(s.Find(".speaker").First().Text())
}

// textOf returns the entry text without the speaker and timestamp decorations.
func textOf(s *goquery.Selection) string {
	c := s.Clone()
	c.Find(".speaker, .timestamp, button").Remove()
	return strings.Join(strings.Fields(c.Text()), " ")
}

// Open loads a transcript from a local path or an http(s) URL.
func Open(ctx context.Context, location string, opts Options) (*Index, error) {
	if u, err := url.Parse(location); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return fetch(ctx, u.String(), opts)
	}

	f, err := filesystem.API().Open(location)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer util.Ignore(f.Close)

	return Load(f, opts)
}

func fetch(ctx context.Context, link string, opts Options) (*Index, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := network.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch transcript: %w", err)
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch transcript: unexpected status %s", resp.Status)
	}

	return Load(resp.Body, opts)
}
