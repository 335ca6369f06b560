// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package supervisor provides process supervision for Cinematch using suture v4.

The tree groups long-running services into layers so a failure in one
layer restarts only that layer:

	RootSupervisor ("cinematch")
	├── DataSupervisor ("data-layer")
	│   └── cache-gc (PeriodicService, if the result cache is persistent)
	├── MessagingSupervisor ("messaging-layer")
	│   └── cache-invalidator (RunnerService over events.Invalidator)
	└── APISupervisor ("api-layer")
	    ├── http-server (HTTPServerService)
	    └── rate-limiter-cleanup (PeriodicService)

Supervisor events (service failures, restarts, backoff) are logged through
sutureslog into the zerolog pipeline via logging.NewSlogLogger.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

Service wrappers live in the services subpackage.
*/
package supervisor
