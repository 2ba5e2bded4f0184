// Package websocket provides the WebSocket transport for Battleship Online.
//
// The Hub owns every live connection and plays two roles:
//   - Inbound: each client's read goroutine decodes messages and calls the
//     game service directly (JoinGame, PlaceShip, AutoPlaceFleet, MakeMove).
//     A closed socket becomes a Disconnect, and frames read after the client
//     was dropped are discarded.
//   - Outbound: the Hub implements service.Gateway. Deliver enqueues onto the
//     client's buffered send channel without blocking; a client whose buffer
//     is full is dropped so one slow peer never stalls its opponent.
//
// Message Protocol:
//
// Every frame is one JSON envelope:
//
//	{"event": "MakeMove", "data": {"row": 3, "col": 7}}
//
// Signal-only events such as YourTurn carry no data. Rejected input is
// answered with an Error event, and every new connection is greeted with
// Connected carrying its connection ID.
//
// Usage:
//
//	hub := websocket.NewHub()
//	svc := service.NewGameService(registry, rules, hub)
//	hub.Attach(svc)
//	go hub.Run()
//
//	router.HandleFunc("/ws", hub.ServeWS)
package websocket
