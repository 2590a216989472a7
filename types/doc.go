// Copyright (c) AgentFlow Authors.
// Licensed under the MIT License.

/*
Package types holds the shared types of suitekit.

# Overview

types is the lowest package in the module and imports nothing internal.
It defines the node run-state enum and the structured error type used by
the grammar, the tree constructor, the trigger engine and the serializer.

# Core types

  - Status: node run-state (unknown, complete, queued, ...);
    values outside the built-in set are kept verbatim
  - Error / ErrorCode: structured error with code, source position,
    node path and offending path operand
  - ErrParse, ErrLink, ErrUnsupported, ErrRange, ErrMutation, ErrConfig:
    sentinel kinds matched through errors.Is
*/
package types
