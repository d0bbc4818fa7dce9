// Package discovery locates the Emacs binary that hosts the game.
//
// Discovery searches in the following order:
//  1. The explicit path in Config.EmacsPath (if provided, it is the only candidate)
//  2. The DUNNET_EMACS environment variable
//  3. The system PATH
//  4. Common installation locations (macOS app bundle, Homebrew, /usr/local, /usr)
//
// After a binary is found its version is probed with --version and logged.
// The probe is best effort and never fails discovery.
package discovery
