package checker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/lukemcguire/doclinks/result"
	"github.com/lukemcguire/doclinks/urlutil"
)

// Verifier decides the outcome of a single link. It holds no per-link state
// and is safe for concurrent use; the client, limiter and robots cache it
// shares are themselves concurrency-safe.
type Verifier struct {
	cfg     Config
	client  *http.Client
	limiter *AdaptiveLimiter
	robots  *RobotsChecker
	log     logrus.FieldLogger
}

// NewVerifier creates a Verifier that checks remote targets with client.
func NewVerifier(cfg Config, client *http.Client, log logrus.FieldLogger) *Verifier {
	cfg = cfg.withDefaults()
	v := &Verifier{
		cfg:     cfg,
		client:  client,
		limiter: NewLimiter(cfg),
		log:     log,
	}
	if cfg.RespectRobots {
		v.robots = NewRobotsChecker(client)
	}
	return v
}

// Verify classifies link, attaches the outcome to it and returns it.
// Verify always produces a terminal outcome: a panic during the check is
// recovered and reported as Unreachable.
func (v *Verifier) Verify(ctx context.Context, link *result.Link) result.Outcome {
	o := v.safeCheck(ctx, link)
	if err := link.Resolve(o); err != nil {
		v.log.WithField("target", link.Target).Warnf("%v", err)
		if prev, ok := link.Outcome(); ok {
			return prev
		}
	}
	return o
}

func (v *Verifier) safeCheck(ctx context.Context, link *result.Link) (o result.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			o = result.Unreachable(fmt.Sprintf("internal error: %v", r))
		}
	}()
	return v.check(ctx, link.Target)
}

// check applies the classification policy to a raw target.
func (v *Verifier) check(ctx context.Context, raw string) result.Outcome {
	target := urlutil.Classify(raw)
	switch target.Kind {
	case urlutil.KindEmpty:
		return result.Unreachable("empty link target")
	case urlutil.KindAnchor:
		return result.Questionable("local anchor; no network check")
	case urlutil.KindMail:
		return result.Questionable("mail address; no network check")
	case urlutil.KindUnsupportedScheme:
		return result.Questionable(fmt.Sprintf("unsupported scheme %q; no network check", target.Scheme))
	case urlutil.KindLocal:
		return result.Questionable("local file reference; no network check")
	case urlutil.KindMissingHost:
		return result.Unreachable("missing host")
	case urlutil.KindMalformed:
		return result.Unreachable(fmt.Sprintf("malformed URL: %v", target.Err))
	}
	return v.checkRemote(ctx, target.URL)
}

// checkRemote runs the network check for an http(s) URL.
func (v *Verifier) checkRemote(ctx context.Context, rawURL string) result.Outcome {
	log := v.log.WithField("target", rawURL)

	if err := ctx.Err(); err != nil {
		return cancelled(err)
	}

	if v.robots != nil {
		allowed, err := v.robots.Allowed(ctx, rawURL, v.cfg.UserAgent)
		if err != nil {
			log.Debugf("robots.txt check: %v", err)
		}
		if !allowed {
			return result.Questionable("disallowed by robots.txt; not checked")
		}
	}

	if v.limiter != nil {
		if err := v.limiter.Wait(ctx); err != nil {
			return cancelled(err)
		}
	}

	log.Trace("requesting")
	res, attempts := ProbeWithRetry(ctx, v.client, rawURL, v.cfg)
	if v.limiter != nil && res.Err == nil {
		v.limiter.ObserveRTT(res.Elapsed)
	}
	log.WithFields(logrus.Fields{
		"status":   res.StatusCode,
		"attempts": attempts,
		"elapsed":  res.Elapsed,
	}).Trace("response")

	if res.Err != nil && ctx.Err() != nil {
		return cancelled(ctx.Err())
	}

	o := outcomeFor(res)
	if attempts > 1 && o.Status == result.StatusUnreachable {
		o.Reason = fmt.Sprintf("%s (after %d attempts)", o.Reason, attempts)
	}
	return o
}

// outcomeFor maps a probe result to an outcome.
func outcomeFor(res ProbeResult) result.Outcome {
	if res.Err != nil {
		o := result.Unreachable(describeError(res.Err))
		o.Category = result.ClassifyError(res.Err, res.StatusCode)
		return o
	}

	switch {
	case res.StatusCode >= 200 && res.StatusCode <= 299:
		o := result.Reachable()
		o.StatusCode = res.StatusCode
		return o
	case res.StatusCode == http.StatusTooManyRequests:
		o := result.Questionable("rate limited (429 Too Many Requests)")
		o.StatusCode = res.StatusCode
		return o
	default:
		o := result.Unreachable(statusText(res.StatusCode))
		o.StatusCode = res.StatusCode
		o.Category = result.ClassifyError(nil, res.StatusCode)
		return o
	}
}

func cancelled(err error) result.Outcome {
	o := result.Unreachable(fmt.Sprintf("check cancelled: %v", err))
	o.Category = result.CategoryCancelled
	return o
}

func statusText(code int) string {
	if text := http.StatusText(code); text != "" {
		return fmt.Sprintf("%d %s", code, text)
	}
	return fmt.Sprintf("HTTP status %d", code)
}

// describeError strips the method and URL that net/http prefixes to
// transport errors; the link line already names the target.
func describeError(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}
	return err.Error()
}
