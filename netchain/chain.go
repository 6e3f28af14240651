// CLAUDE:SUMMARY Greedy assign-once reconstruction of sequential script-loading chains from network timing records.
// Package netchain reconstructs sequential bundle-loading chains from network
// timing records. Two scripts form a link when the second starts within a
// short gap after the first finishes: the browser plausibly only discovered
// the second once the first had loaded, so the pair loads serially instead of
// in parallel.
//
// Chains are observations of a single page load, not proven causal
// dependencies.
package netchain

import (
	"sort"
	"strings"
)

// GapThresholdMs is the maximum delay between one script finishing and the
// next starting for the pair to count as sequentially discovered. Tuning
// constant, not configurable.
const GapThresholdMs = 50

// Request is one network record as reported by a network provider. HasTiming
// is false for requests that never produced a response (aborted, failed,
// still in flight); those are valid inputs and are skipped, not errors.
// SizeBytes is 0 when the response size is unknown.
type Request struct {
	URL          string  `json:"url"`
	ResourceType string  `json:"resource_type"`
	StartMs      float64 `json:"start_ms"`
	EndMs        float64 `json:"end_ms"`
	SizeBytes    int64   `json:"size_bytes"`
	HasTiming    bool    `json:"has_timing"`
}

// Node is one script in a chain. Child points at the next link; chains are
// linear, so a node has at most one child.
type Node struct {
	URL       string  `json:"url"`
	SizeBytes int64   `json:"size_bytes"`
	StartMs   float64 `json:"start_ms"`
	EndMs     float64 `json:"end_ms"`
	LoadMs    float64 `json:"load_ms"`
	Child     *Node   `json:"child,omitempty"`
}

// Chain is one detected sequential loading chain. TotalMs spans from the head
// script's start to the tail script's end. Every script belongs to at most
// one chain.
type Chain struct {
	Depth   int      `json:"depth"`
	TotalMs float64  `json:"total_ms"`
	URLs    []string `json:"urls"`
	Root    *Node    `json:"root"`
}

// Detect finds sequential loading chains among the script-type records.
//
// Records are filtered to scripts with resolvable timing, stable-sorted by
// end time, then walked greedily: each unassigned script seeds a chain that
// grows by repeatedly taking the first unassigned script (in end-time order)
// starting within GapThresholdMs after the current tail finishes. A script is
// assigned exactly once; seeds whose chain misses minDepth or minTimeMs are
// dropped, their scripts are not retried in another chain.
//
// The result is deterministic for a fixed input and independent of original
// record order, except that identical timestamps keep input order.
func Detect(reqs []Request, minDepth int, minTimeMs float64) []Chain {
	if minDepth < 2 {
		minDepth = 2
	}
	if minTimeMs < 0 {
		minTimeMs = 0
	}

	var scripts []Request
	for _, r := range reqs {
		if !r.HasTiming || !strings.EqualFold(r.ResourceType, "script") {
			continue
		}
		scripts = append(scripts, r)
	}

	sort.SliceStable(scripts, func(i, j int) bool {
		return scripts[i].EndMs < scripts[j].EndMs
	})

	// Arena of nodes addressed by index; Child pointers are wired only for
	// chains that survive the filters.
	nodes := make([]Node, len(scripts))
	for i, s := range scripts {
		nodes[i] = Node{
			URL:       s.URL,
			SizeBytes: s.SizeBytes,
			StartMs:   s.StartMs,
			EndMs:     s.EndMs,
			LoadMs:    s.EndMs - s.StartMs,
		}
	}

	used := make([]bool, len(scripts))
	var chains []Chain

	for i := range scripts {
		if used[i] {
			continue
		}
		used[i] = true
		seq := []int{i}
		cur := i

		for {
			next := -1
			for j := range scripts {
				if used[j] {
					continue
				}
				gap := scripts[j].StartMs - scripts[cur].EndMs
				if gap >= 0 && gap <= GapThresholdMs {
					next = j
					break
				}
			}
			if next < 0 {
				break
			}
			used[next] = true
			seq = append(seq, next)
			cur = next
		}

		if len(seq) < minDepth {
			continue
		}
		total := scripts[seq[len(seq)-1]].EndMs - scripts[seq[0]].StartMs
		if total < minTimeMs {
			continue
		}

		urls := make([]string, len(seq))
		for k, idx := range seq {
			urls[k] = scripts[idx].URL
			if k+1 < len(seq) {
				nodes[idx].Child = &nodes[seq[k+1]]
			}
		}
		chains = append(chains, Chain{
			Depth:   len(seq),
			TotalMs: total,
			URLs:    urls,
			Root:    &nodes[seq[0]],
		})
	}

	return chains
}
