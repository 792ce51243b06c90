// Package document reads and writes document trees.
//
// The package is organized around three concerns:
//
//   - Loading (load.go): UTF-8 JSON or YAML into a [tree.Node], keeping
//     mapping key order. Failures are *IOError or *ParseError.
//
//   - Encoding (encode.go): human-readable JSON or YAML with insertion-ordered
//     keys and literal non-ASCII text.
//
//   - Writers (writer.go): pluggable output destinations via the [Writer]
//     interface, with [StdoutWriter] and [FileWriter] implementations.
package document
