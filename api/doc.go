// Package api serves the REST surface of the game.
//
// Sessions are addressed by puzzle date, so the routes read as
// /api/sessions/{date}/select, /api/sessions/{date}/submit and so on.
// Rule rejections come back as 422 with the same PlayResult body a
// successful call returns; 4xx/5xx with an error object are reserved
// for bad requests and infrastructure failures. Accepted events are
// fanned out to WebSocket subscribers of the same date.
package api
