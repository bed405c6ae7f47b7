// Package runtime provides the execution context for vb commands.
//
// It encapsulates shared dependencies needed by actions, such as the
// engine, the notification queue, the drop resolver factory, the logger
// and the repository root path.
package runtime
