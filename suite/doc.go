// Copyright (c) AgentFlow Authors.
// Licensed under the MIT License.

/*
Package suite models workflow suite definitions as a typed node tree.

A Suite owns Families; a Family owns Tasks and sub-Families; a Task owns
Labels and Meters. Every node has a path: "/" for the suite, "/f" for a
top-level family and "/f/t" below it. Nodes resolve paths the way a
filesystem does, with ".." stepping up one level.

Builder turns definition text into a tree in three steps: package dsl
parses the text into records, the records are constructed into nodes
(in-limits are resolved leniently), and every trigger is linked to the
nodes it references. Unresolved trigger paths fail the build.

The tree renders back to definition text with Definition and to a closed
JSON/YAML document shape with Document, MarshalNode, ToJSON and ToYAML.

Mutations (Rename, AddTask, RemoveTask, AddFamily, RemoveFamily) validate
first and then apply, recomputing the path of the moved node and all of its
descendants. A tree has a single writer; callers sharing one across
goroutines serialize access themselves.
*/
package suite
