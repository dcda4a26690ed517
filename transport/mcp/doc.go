// Package mcp provides a Model Context Protocol surface for the game.
//
// The MCP server is a thin client: every tool call is proxied to the
// REST API, so MCP agents and HTTP/WebSocket players share the same
// sessions and see the same state.
//
// Tools:
//   - daily_puzzle: today's letter square
//   - game_state: current session state for a date
//   - select_letter: append a letter to the current word
//   - delete_letter: remove the most recent letter
//   - submit_word: complete the current word
//   - restart_game: reset the session
//   - get_stats: solve history and streak
//   - game_instructions: the rules, written for agents
package mcp
