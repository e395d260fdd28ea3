// Package terminal puts the controlling terminal into raw mode and exposes the
// three things the snowfall loop needs from it: its size, non-blocking key
// input, and resize notification.
//
// Features:
//   - Raw mode with guaranteed restoration (Fini, EmergencyReset)
//   - Zero-timeout key polling so a tick never waits on input
//   - SIGWINCH resize detection delivered on a channel
//
// Output is a buffered writer; callers write plain characters and flush.
package terminal
