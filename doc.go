// Package cryptotax computes realized capital gains and losses from a
// chronological ledger of crypto-asset trades, using FIFO lot accounting, for
// tax reporting purposes.
//
// The core functionalities include:
//   - Ledger Management: Recording trades (buys, sells, and the crypto-to-crypto
//     "permuta" variants) in a chronological record persisted as JSONL.
//   - Lot Inventory: A per-asset inventory of open cost-basis lots, consumed
//     strictly oldest-first on disposals.
//   - Valuation: Fiat-quoted trades are valued verbatim; permuta trades are
//     valued through the primary asset's own tracked acquisition cost, so a
//     report is reproducible from the ledger alone, without price feeds.
//   - Matching Engine: A single-pass, deterministic fold over the transaction
//     sequence, emitting one auditable realized-gain record per disposal.
//   - Reporting: Per-asset yearly aggregation of realized gains, plus import
//     and export of legacy trade and inventory CSV formats.
//
// This package serves as the foundational logic for the `ctax` command-line
// tool.
package cryptotax
