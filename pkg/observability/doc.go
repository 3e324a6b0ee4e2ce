/*
Package observability provides lifecycle hooks for monitoring the stepform engine.

It includes Prometheus metrics for step visits, validation failures and
submissions, and structured logging of every engine event. Both are plain
domain.LifecycleHooks and can be combined with LifecycleHooks.Merge.
*/
package observability
