// Package persistence stores the manual printer registry as a JSON file.
//
// The document shape is {"manualPrinters": [...]}, with array order equal
// to the registry's insertion order (most-recent-first). The store is a
// dumb file layer; corruption tolerance and load/save failure policy live
// in the discovery package.
package persistence
