// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

/*
Package services adapts TV-DB components to suture.Service.

Each wrapper translates a component's own lifecycle into
Serve(ctx) error and names itself through fmt.Stringer so suture's
events identify it:

	HTTPServerService      ListenAndServe/Shutdown  -> Serve
	HubService             RunWithContext           -> Serve
	RefreshSchedulerService periodic refresh.Run    -> Serve

Returning ctx.Err() signals a clean stop. Any other error makes the
owning supervisor restart the service with backoff.
*/
package services
