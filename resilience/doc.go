// Package resilience provides the resource-isolation core that protects
// notification dispatch from unreliable downstream providers.
//
// This package includes:
//   - Partition: a named, bounded worker pool with per-call timeout
//     enforcement and health accounting
//   - Executor: routes work to the partition matching a channel name and
//     aggregates health across partitions (the bulkhead pattern)
//   - Retry: re-attempts transient failures with exponential backoff
//
// The layers compose: wrap a channel adapter's send with Retry, then
// submit the wrapped call under the channel's partition:
//
//	exec, _ := resilience.NewExecutor()
//	receipt, err := resilience.ExecuteIn(exec, "email", func() (*channel.Receipt, error) {
//	    return resilience.Retry(ctx, resilience.StandardRetry(), send)
//	})
//
// A partition's timeout bounds how long the caller waits; it does not
// cancel the in-flight work item, whose worker slot stays busy until the
// item finishes on its own. Sustained slow work can therefore exhaust one
// partition's capacity, but never another's.
package resilience
