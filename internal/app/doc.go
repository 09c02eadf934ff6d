// Package app contains the core application logic: it turns a validated
// Config into a benchmark run over every document, decoupled from the command
// line that builds the Config.
//
// A run reads and parses each document, generates its benchmark script next
// to it, executes the script on every configured runtime in turn and removes
// it again. Failures are confined to the document they happen in; the run
// reports them and moves on.
package app
