// Copyright 2026 AgentFlow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

/*
Package testutil provides shared helpers for suitekit tests.

# Core helpers

  - Contexts: TestContext / TestContextWithTimeout / CancelledContext,
    cancelled automatically through t.Cleanup
  - Logging: Logger returns a zaptest logger bound to the test
  - Assertions: AssertLines compares definition text line by line

# Sub-packages

  - testutil/fixtures: ready-made definition texts and a rapid generator
    for random valid definitions

# Usage

	s, err := suite.NewBuilder().WithLogger(testutil.Logger(t)).Build(fixtures.Nightly)
	require.NoError(t, err)
*/
package testutil
