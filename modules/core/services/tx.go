package services

import "github.com/northstarhq/northstar/pkg/composables"

// inTxFn is swapped out in tests to run the closure without a database pool.
var inTxFn = composables.InTx
