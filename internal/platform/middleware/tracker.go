// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import "context"

// trackedRequest carries values discovered deeper in the chain back up to the
// access log. Handlers run on the request goroutine, so no locking is needed.
type trackedRequest struct {
	userID string
}

type trackerKey struct{}

func withTracker(ctx context.Context, tracked *trackedRequest) context.Context {
	return context.WithValue(ctx, trackerKey{}, tracked)
}

// trackUser records the authenticated member for the access log, if one is being written.
func trackUser(ctx context.Context, userID string) {
	if tracked, ok := ctx.Value(trackerKey{}).(*trackedRequest); ok {
		tracked.userID = userID
	}
}
