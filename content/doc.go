// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package content materializes HTTP message bodies: it buffers a live
// body into memory up to a size limit, and reads bodies as a string,
// a byte slice, or a stream.
//
// Every function in this package treats a nil body and http.NoBody as
// an empty body.
package content
