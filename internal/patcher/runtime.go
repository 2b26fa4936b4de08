package patcher

import (
	_ "embed"
	"io"
)

//go:embed runtime/Obfuscator.swift
var runtimeSource []byte

// Runtime writes the Swift Obfuscator class that rewritten files call into.
// Each rewritten file supplies its own salt through the accessor extension.
func Runtime(w io.Writer) error {
	_, err := w.Write(runtimeSource)
	return err
}
