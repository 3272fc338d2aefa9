// Package processor is a small client for the BitPay REST API covering the
// invoice, refund, payout and recipient calls payhooks drives, plus the
// orchestration used by the HTTP surface.
package processor
