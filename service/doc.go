// Package service exposes a memory adapter over HTTP.
//
// # Routes
//
//	GET    /                  welcome message
//	GET    /health            liveness and readiness
//	POST   /dialogue          ingest one dialogue turn
//	POST   /dialogues         ingest a batch
//	POST   /finalize          flush pending writes
//	POST   /query, /ask       answer a question from memories
//	GET    /retrieve          list memories (?limit=, ?query=)
//	DELETE /memory/{entry_id} delete one memory
//	GET    /stats             count and storage details
//	DELETE /clear             remove everything ({"confirmation": true})
//
// Every route except / and /health answers 503 until the adapter is
// initialized. Errors are RFC 7807 problem documents.
//
// # Usage
//
//	a, err := adapter.New(cfg.Adapter())
//	if err != nil {
//	    return err
//	}
//	if err := a.Initialize(ctx); err != nil {
//	    logger.Error("storage unavailable", "err", err)
//	}
//	srv := service.New(a, service.WithAppInfo(cfg.AppName, cfg.AppVersion))
//	return srv.ListenAndServe(ctx, cfg.Addr())
package service
