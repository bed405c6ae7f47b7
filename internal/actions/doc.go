// Package actions provides high-level business logic for CLI commands.
//
// Each action corresponds to a vb command (init, status, move, ...)
// and orchestrates operations across the engine, the drop resolvers and
// the notification queue.
//
// Key patterns:
//   - Actions accept runtime.Context which provides Engine, Queue, Factory and Splog
//   - Actions are stateless - all state is managed through the Engine
//   - Moves go through the same resolvers as the board, so both surfaces
//     accept and reject the same drops
package actions
