// Package hook implements the shell-operator hook protocol: the descriptor
// printed for --config and the binding context file describing watch events.
package hook
