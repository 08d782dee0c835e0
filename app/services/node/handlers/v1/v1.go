// Package v1 contains the full set of handler functions and routes
// supported by the v1 rpc api.
package v1

import (
	"net/http"

	"github.com/EmekaIwuagwu/aurelis-blockchain/app/services/node/handlers/v1/evtgrp"
	"github.com/EmekaIwuagwu/aurelis-blockchain/app/services/node/handlers/v1/rpcgrp"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/blockchain/state"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/events"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/web"
	"go.uber.org/zap"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	Evts  *events.Events
}

// Routes binds all the rpc routes. The dispatcher answers at the root the
// way wallets and explorers expect from a JSON-RPC node.
func Routes(app *web.App, cfg Config) {
	rpc := rpcgrp.New(cfg.Log, cfg.State)
	app.Handle(http.MethodPost, "", "/", rpc.Dispatch)
	app.Handle(http.MethodOptions, "", "/*path", rpc.Options)

	evt := evtgrp.Handlers{
		Log:  cfg.Log,
		Evts: cfg.Evts,
	}
	app.Handle(http.MethodGet, "v1", "/events", evt.Events)
}
