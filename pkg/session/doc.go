/*
Package session implements per-session access control for live form states.

Front-ends that serve many users at once (HTTP, MCP) keep one state per
session in a store and funnel every read-modify-write through the Manager,
which serialises access per session with reference-counted locks.
*/
package session
