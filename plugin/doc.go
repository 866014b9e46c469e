// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package plugin is the boundary between the engine and node types.
//
// A node type is a Func. The engine calls it once per run with a Host,
// before the script body is interpreted. The Func registers the script
// operations it provides and, if it needs batch setup once the whole graph
// is known, a preparation callback:
//
//	func Init(h *plugin.Host) error {
//	    if err := h.Prepare(loadAll); err != nil {
//	        return err
//	    }
//	    return h.Register("my_node", opMyNode)
//	}
//
// Node types make themselves available to every engine by registering in
// the package registry from an init function:
//
//	func init() {
//	    plugin.Register("my_node", Init)
//	}
package plugin
