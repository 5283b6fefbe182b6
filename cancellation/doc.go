// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package cancellation composes the independent signals that may cancel an
in-flight request into a single derived context.

Three inputs feed a derived context: the caller's context, a Source
shared by every request pending on one client, and an optional timeout.
Cancelling any of them cancels the derived context:

	d := cancellation.Compose(ctx, pending, 30*time.Second)
	defer d.Release()
	resp, err := doer.Do(req.WithContext(d.Context()))

A Source is a cancellation signal with an explicit observer list. Unlike
a context it can be observed without a goroutine and it reports the
cause it was cancelled with to every observer exactly once.
*/
package cancellation
