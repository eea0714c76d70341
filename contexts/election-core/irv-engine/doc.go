// Package irvengine implements the instant-runoff election engine inside the
// election-core context.
//
// The module owns election lifecycle orchestration (create/cast/decide),
// round-by-round tally reads, and outcome archiving. It keeps the counting
// rules in the domain layer and isolates infrastructure concerns behind
// ports and adapters.
package irvengine
