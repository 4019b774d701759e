// Package io provides the file formats of the UVM tools: raw program
// images, memory dumps (initialization data and snapshots), and the
// JSON, YAML and CBOR codecs they share with program descriptions.
package io
