// Package bankroll keeps the ledger of a sports bettor: an initial capital,
// the wagers placed and the withdrawals made, and everything derived from it.
//
// The core functionalities include:
//   - Normalization: turning loosely typed records (legacy files, pictures of
//     bet slips, classifier answers) into canonical wagers and withdrawals.
//   - Unit sizing: every wager stake is expressed in units of the bankroll
//     that existed right before the wager was placed, and re-derived each time
//     the history changes.
//   - Projection: replaying the ledger into its bankroll trajectory.
//   - Statistics: ROI, win rate, drawdown, per market and per day rollups.
//   - Classification: merging market and league labels from an external
//     classifier, all or nothing.
//
// A Book is the single writer of a ledger persisted in a LedgerStore, and the
// foundation of the `bankroll` command-line tool.
package bankroll
