// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient classifies send failures into coarse categories
// (timeout, cancellation, connection refused, connection reset) for use
// by diagnostic event handlers.
package transient
