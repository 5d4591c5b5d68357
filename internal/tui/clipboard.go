package tui

import "github.com/atotto/clipboard"

// copyToClipboard is a var so tests can stub it; there is no clipboard in CI.
var copyToClipboard = clipboard.WriteAll
