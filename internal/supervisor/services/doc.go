// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package services provides suture.Service wrappers for Cinematch components.

Each wrapper translates a component lifecycle into suture's context-aware
Serve pattern and implements fmt.Stringer so supervisor events name it:

  - HTTPServerService: ListenAndServe/Shutdown with a drain timeout.
  - RunnerService: a blocking Run(ctx) error loop such as
    events.Invalidator.
  - PeriodicService: a task run on a fixed interval, used for the result
    cache value-log GC and for pruning idle per-user rate limiters.

Serve returns ctx.Err() on shutdown so suture does not treat a requested
stop as a failure.
*/
package services
