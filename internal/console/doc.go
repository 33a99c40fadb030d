// Package console provides the interactive line source and the styled output
// sink used by the session controller.
package console
