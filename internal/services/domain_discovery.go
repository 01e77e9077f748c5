package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/logging"
)

const maxDomainCandidates = 4

// Prober checks whether a candidate domain serves a website
type Prober interface {
	Probe(ctx context.Context, domain string) error
}

// HTTPProber sends HEAD https://<domain> and accepts any 2xx or 3xx answer
type HTTPProber struct {
	httpClient *http.Client
}

// NewHTTPProber creates a prober that does not follow redirects; a redirect already proves the host is live
func NewHTTPProber(timeout time.Duration) *HTTPProber {
	return &HTTPProber{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
			},
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (p *HTTPProber) Probe(ctx context.Context, domain string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, "https://"+domain, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", renderUserAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		return nil
	}
	return fmt.Errorf("status %d", resp.StatusCode)
}

// DomainDiscovery guesses an organizer's website from its name
type DomainDiscovery struct {
	prober  Prober
	metrics *PipelineMetrics
	logger  *zap.Logger
}

func NewDomainDiscovery(prober Prober, metrics *PipelineMetrics, logger *zap.Logger) *DomainDiscovery {
	return &DomainDiscovery{
		prober:  prober,
		metrics: metrics,
		logger:  logging.OrNop(logger),
	}
}

// Discover probes every candidate in parallel and returns the earliest candidate,
// in list order, that answered. A later candidate only wins once every earlier
// one has failed. Outstanding probes are cancelled as soon as the winner is known.
func (d *DomainDiscovery) Discover(ctx context.Context, organizerName string) (string, error) {
	candidates := CandidateDomains(organizerName)
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no usable characters in %q", ErrDomainNotFound, organizerName)
	}

	probeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]chan error, len(candidates))
	for i, candidate := range candidates {
		results[i] = make(chan error, 1)
		go func(domain string, out chan<- error) {
			out <- d.prober.Probe(probeCtx, domain)
		}(candidate, results[i])
	}

	for i, candidate := range candidates {
		var err error
		select {
		case err = <-results[i]:
		case <-ctx.Done():
			return "", ctx.Err()
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		d.metrics.ObserveProbe(err == nil)
		if err == nil {
			d.logger.Info("Discovered organizer domain",
				zap.String("organizer", organizerName),
				zap.String("domain", candidate))
			return strings.TrimPrefix(candidate, "www."), nil
		}
		d.logger.Debug("Domain candidate failed",
			zap.String("candidate", candidate),
			zap.Error(err))
	}

	return "", fmt.Errorf("%w: tried %s", ErrDomainNotFound, strings.Join(candidates, ", "))
}

// NormalizeOrganizerName lower-cases, strips diacritics, keeps only letters,
// digits and single spaces
func NormalizeOrganizerName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}

	var b strings.Builder
	for _, r := range strings.ToLower(stripped) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// CandidateDomains lists the domains worth probing for an organizer, most likely first
func CandidateDomains(name string) []string {
	normalized := NormalizeOrganizerName(name)
	if normalized == "" {
		return nil
	}

	words := strings.Fields(normalized)
	slug := strings.Join(words, "")

	candidates := []string{slug + ".com.br", slug + ".com"}
	if len(words) > 1 {
		candidates = append(candidates, strings.Join(words, "-")+".com.br")
	}
	candidates = append(candidates, "www."+slug+".com.br", "www."+slug+".com")

	if len(candidates) > maxDomainCandidates {
		candidates = candidates[:maxDomainCandidates]
	}
	return candidates
}
