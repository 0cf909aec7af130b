// Package logx is the planner's structured logging.
//
// It is a small wrapper (logx.Logger) on top of zerolog that keeps:
//   - Console output readable (short timestamp + short caller)
//   - JSON output structured for log shippers
//
// The zero Logger is a safe no-op, so components can take one by value.
package logx
