// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout defines the client-wide request timeout values
// understood by httpc.Client: the default, the Infinite sentinel, and
// the largest finite timeout a client accepts.
package timeout
