// Package mail defines the contracts for sending email messages and ships
// the drivers behind them.
//
// The rest of the application depends on the Mail interface and the Message
// payload only. Two drivers live here:
//
//   - Client talks to the transactional email provider's HTTP API
//     (POST {base_url}/mail/send with a bearer token). It is the production
//     driver.
//   - SMTP speaks plain SMTP and is meant for local mail catchers.
//
// Client performs exactly one HTTP request per send and never retries. Failures
// are returned as *SendError, classified as transport-kind (connection,
// timeout, unreadable response) or status-kind (non-2xx response). Callers own
// any retry or deduplication policy.
package mail
