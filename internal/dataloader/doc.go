/*
Package dataloader coalesces single-key lookups made while serving one
request into batched fetches.

A Scope lives exactly as long as the request. Each Loader registered on a
scope groups calls by a comparable params value; every params value gets
its own pending queue and cache. Keys queued for a params value are
fetched together once the batch window elapses or the batch is full.
While a fetch is running, new keys for the same params value wait for
the next batch, so at most one fetch per params value is ever in flight.

Results, including failures, are cached until the scope is closed.
*/
package dataloader
