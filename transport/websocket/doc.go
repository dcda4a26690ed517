// Package websocket pushes game state updates to connected clients.
//
// Clients subscribe to a puzzle date over /ws; the hub fans out a state
// snapshot to every subscriber of that date after each accepted game
// event. Traffic is one-way: incoming client messages are read only to
// keep the connection alive.
package websocket
