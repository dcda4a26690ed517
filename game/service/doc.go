// Package service exposes the game as a transport-agnostic API.
//
// GameService orchestrates the puzzle manager, dictionary, session
// manager and stats ledger behind one interface that the REST,
// WebSocket and MCP surfaces all share. Rule violations are reported as
// unsuccessful PlayResults with machine-readable codes; errors are
// reserved for infrastructure failures and unknown dates.
package service
