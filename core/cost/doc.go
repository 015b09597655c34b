// Package cost defines the per-call pricing metadata attached to tools and a
// small tracker that accumulates tool spend over a session.
//
// [ToolMetrics] travels with every tool description so a model can weigh a
// cheap raw search against a more expensive synthesized one. [Tracker]
// records executions and produces a [Summary] for reporting.
package cost
