// CLAUDE:SUMMARY Rod-backed network provider: collects request timing via CDP Network events for chain detection.
package provider

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/bundlescope/bundlescope/netchain"
)

// record accumulates CDP Network events for one request.
type record struct {
	url          string
	resourceType string
	startTs      float64 // monotonic seconds
	endTs        float64
	sizeBytes    int64
	finished     bool
	failed       bool
	order        int
}

// Network observes the page's network traffic and snapshots it as chain
// detection input. It implements analyzer.NetworkProvider.
//
// Records are kept for the current page only: a main-frame navigation clears
// the table, so chains always describe the page under analysis.
type Network struct {
	page   *rod.Page
	logger *slog.Logger

	mu      sync.Mutex
	records map[proto.NetworkRequestID]*record
	seq     int
	cancel  context.CancelFunc
}

// NewNetwork creates a network provider bound to a page.
func NewNetwork(page *rod.Page, logger *slog.Logger) *Network {
	if logger == nil {
		logger = slog.Default()
	}
	return &Network{
		page:    page,
		logger:  logger,
		records: make(map[proto.NetworkRequestID]*record),
	}
}

// Start enables Network tracking and begins collecting events. Collection
// runs until ctx is cancelled or Stop is called.
func (n *Network) Start(ctx context.Context) error {
	p := n.page.Context(ctx)
	if err := (proto.NetworkEnable{}).Call(p); err != nil {
		return fmt.Errorf("provider: enable network: %w", err)
	}

	evCtx, cancel := context.WithCancel(ctx)
	n.mu.Lock()
	n.cancel = cancel
	n.mu.Unlock()

	go n.listen(evCtx)
	return nil
}

// Stop ends event collection. Collected records stay readable.
func (n *Network) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
}

func (n *Network) listen(ctx context.Context) {
	p := n.page.Context(ctx)
	wait := p.EachEvent(
		func(e *proto.NetworkRequestWillBeSent) {
			n.mu.Lock()
			defer n.mu.Unlock()
			// Redirects reuse the request ID; keep the first observed start.
			if _, ok := n.records[e.RequestID]; ok {
				return
			}
			n.seq++
			n.records[e.RequestID] = &record{
				url:          e.Request.URL,
				resourceType: string(e.Type),
				startTs:      float64(e.Timestamp),
				order:        n.seq,
			}
		},
		func(e *proto.NetworkLoadingFinished) {
			n.mu.Lock()
			defer n.mu.Unlock()
			r, ok := n.records[e.RequestID]
			if !ok {
				return
			}
			r.endTs = float64(e.Timestamp)
			r.sizeBytes = int64(e.EncodedDataLength)
			r.finished = true
		},
		func(e *proto.NetworkLoadingFailed) {
			n.mu.Lock()
			defer n.mu.Unlock()
			if r, ok := n.records[e.RequestID]; ok {
				r.failed = true
			}
		},
		func(e *proto.PageFrameNavigated) {
			if e.Frame.ParentID != "" {
				return
			}
			n.mu.Lock()
			n.records = make(map[proto.NetworkRequestID]*record)
			n.seq = 0
			n.mu.Unlock()
		},
	)
	wait()
}

// CurrentRequests snapshots the observed requests as chain-detection input.
// Timestamps are rebased to the earliest observed request, in milliseconds.
// Failed requests are dropped; requests still in flight (no finish event)
// are reported without timing, and included only when includeAll is set.
func (n *Network) CurrentRequests(_ context.Context, includeAll bool) ([]netchain.Request, error) {
	n.mu.Lock()
	recs := make([]*record, 0, len(n.records))
	for _, r := range n.records {
		recs = append(recs, r)
	}
	n.mu.Unlock()

	sort.Slice(recs, func(i, j int) bool { return recs[i].order < recs[j].order })

	base := 0.0
	for _, r := range recs {
		if r.failed {
			continue
		}
		if base == 0 || r.startTs < base {
			base = r.startTs
		}
	}

	out := make([]netchain.Request, 0, len(recs))
	for _, r := range recs {
		if r.failed {
			continue
		}
		if !r.finished && !includeAll {
			continue
		}
		req := netchain.Request{
			URL:          r.url,
			ResourceType: r.resourceType,
			SizeBytes:    r.sizeBytes,
		}
		if r.finished {
			req.StartMs = (r.startTs - base) * 1000
			req.EndMs = (r.endTs - base) * 1000
			req.HasTiming = true
		}
		out = append(out, req)
	}
	return out, nil
}
